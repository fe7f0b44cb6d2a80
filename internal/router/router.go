package router

import (
	"net/http"
	"strings"

	"tably/internal/handler"
	"tably/internal/middleware"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	expenseHandler *handler.ExpenseHandler,
	ingredientHandler *handler.IngredientHandler,
	orderHandler *handler.OrderHandler,
	menuHandler *handler.MenuHandler,
	employeeHandler *handler.EmployeeHandler,
	reportHandler *handler.ReportHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	registerExpenseRoutes(mux, expenseHandler)
	registerIngredientRoutes(mux, ingredientHandler)
	registerOrderRoutes(mux, orderHandler)
	registerMenuRoutes(mux, menuHandler)
	registerEmployeeRoutes(mux, employeeHandler)

	mux.HandleFunc("/api/reports/sales", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		reportHandler.SalesSummary(w, r)
	})

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}

func registerExpenseRoutes(mux *http.ServeMux, h *handler.ExpenseHandler) {
	route := func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(r.URL.Path, "/api/expenses")

		switch len(segments) {
		case 0:
			switch r.Method {
			case http.MethodPost:
				h.Record(w, r)
			case http.MethodGet:
				h.List(w, r)
			default:
				methodNotAllowed(w)
			}
		case 1:
			id, ok := parseID(w, segments[0])
			if !ok {
				return
			}
			switch r.Method {
			case http.MethodGet:
				h.GetByID(w, r, id)
			case http.MethodPut:
				h.Replace(w, r, id)
			case http.MethodDelete:
				h.Delete(w, r, id)
			default:
				methodNotAllowed(w)
			}
		default:
			http.NotFound(w, r)
		}
	}

	mux.HandleFunc("/api/expenses", route)
	mux.HandleFunc("/api/expenses/", route)
}

func registerIngredientRoutes(mux *http.ServeMux, h *handler.IngredientHandler) {
	route := func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(r.URL.Path, "/api/ingredients")

		switch len(segments) {
		case 0:
			switch r.Method {
			case http.MethodPost:
				h.Create(w, r)
			case http.MethodGet:
				h.List(w, r)
			default:
				methodNotAllowed(w)
			}
		case 1:
			if segments[0] == "low-stock" {
				if r.Method != http.MethodGet {
					methodNotAllowed(w)
					return
				}
				h.ListLowStock(w, r)
				return
			}
			id, ok := parseID(w, segments[0])
			if !ok {
				return
			}
			switch r.Method {
			case http.MethodGet:
				h.GetByID(w, r, id)
			case http.MethodPut:
				h.Update(w, r, id)
			default:
				methodNotAllowed(w)
			}
		default:
			http.NotFound(w, r)
		}
	}

	mux.HandleFunc("/api/ingredients", route)
	mux.HandleFunc("/api/ingredients/", route)
}

func registerOrderRoutes(mux *http.ServeMux, h *handler.OrderHandler) {
	route := func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(r.URL.Path, "/api/orders")

		switch len(segments) {
		case 0:
			switch r.Method {
			case http.MethodPost:
				h.Create(w, r)
			case http.MethodGet:
				h.List(w, r)
			default:
				methodNotAllowed(w)
			}
		case 1:
			id, ok := parseID(w, segments[0])
			if !ok {
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w)
				return
			}
			h.GetByID(w, r, id)
		case 2:
			id, ok := parseID(w, segments[0])
			if !ok {
				return
			}
			switch segments[1] {
			case "items":
				if r.Method != http.MethodPost {
					methodNotAllowed(w)
					return
				}
				h.AddItem(w, r, id)
			case "status":
				if r.Method != http.MethodPut {
					methodNotAllowed(w)
					return
				}
				h.AdvanceStatus(w, r, id)
			case "payments":
				if r.Method != http.MethodPost {
					methodNotAllowed(w)
					return
				}
				h.RecordPayment(w, r, id)
			default:
				http.NotFound(w, r)
			}
		case 3:
			if segments[1] != "items" {
				http.NotFound(w, r)
				return
			}
			orderID, ok := parseID(w, segments[0])
			if !ok {
				return
			}
			itemID, ok := parseID(w, segments[2])
			if !ok {
				return
			}
			switch r.Method {
			case http.MethodDelete:
				h.RemoveItem(w, r, orderID, itemID)
			case http.MethodPut:
				h.ChangeItemQuantity(w, r, orderID, itemID)
			default:
				methodNotAllowed(w)
			}
		default:
			http.NotFound(w, r)
		}
	}

	mux.HandleFunc("/api/orders", route)
	mux.HandleFunc("/api/orders/", route)
}

func registerMenuRoutes(mux *http.ServeMux, h *handler.MenuHandler) {
	route := func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(r.URL.Path, "/api/menu")

		switch len(segments) {
		case 0:
			switch r.Method {
			case http.MethodPost:
				h.Create(w, r)
			case http.MethodGet:
				h.List(w, r)
			default:
				methodNotAllowed(w)
			}
		case 1:
			id, ok := parseID(w, segments[0])
			if !ok {
				return
			}
			switch r.Method {
			case http.MethodGet:
				h.GetByID(w, r, id)
			case http.MethodPut:
				h.Update(w, r, id)
			case http.MethodDelete:
				h.Delete(w, r, id)
			default:
				methodNotAllowed(w)
			}
		default:
			http.NotFound(w, r)
		}
	}

	mux.HandleFunc("/api/menu", route)
	mux.HandleFunc("/api/menu/", route)
}

func registerEmployeeRoutes(mux *http.ServeMux, h *handler.EmployeeHandler) {
	route := func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(r.URL.Path, "/api/employees")

		switch len(segments) {
		case 0:
			switch r.Method {
			case http.MethodPost:
				h.Create(w, r)
			case http.MethodGet:
				h.List(w, r)
			default:
				methodNotAllowed(w)
			}
		case 1:
			id, ok := parseID(w, segments[0])
			if !ok {
				return
			}
			switch r.Method {
			case http.MethodGet:
				h.GetByID(w, r, id)
			case http.MethodPut:
				h.Update(w, r, id)
			default:
				methodNotAllowed(w)
			}
		default:
			http.NotFound(w, r)
		}
	}

	mux.HandleFunc("/api/employees", route)
	mux.HandleFunc("/api/employees/", route)
}

// splitPath returns the non-empty path segments below the prefix.
func splitPath(path, prefix string) []string {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// parseID parses a path segment as a UUID, writing a 400 on failure.
func parseID(w http.ResponseWriter, segment string) (uuid.UUID, bool) {
	id, err := uuid.Parse(segment)
	if err != nil {
		http.Error(w, `{"error":"INVALID_ID","message":"invalid id format"}`, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, `{"error":"METHOD_NOT_ALLOWED","message":"method not allowed"}`, http.StatusMethodNotAllowed)
}
