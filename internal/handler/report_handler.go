package handler

import (
	"net/http"
	"time"

	"tably/internal/model"
	"tably/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler handles reporting HTTP requests.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// SalesSummary handles GET /api/reports/sales requests. The range defaults
// to the current day when from/to are omitted.
func (h *ReportHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid from date", h.logger)
			return
		}
		from = *parsed
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid to date", h.logger)
			return
		}
		to = *parsed
	}

	summary, err := h.service.SalesSummary(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err, "failed to build sales summary", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
