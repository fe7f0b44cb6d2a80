package integration

import (
	"context"
	"testing"
	"time"

	"tably/internal/model"
	"tably/internal/repository"
	"tably/internal/stock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIngredient(t *testing.T, repo repository.IngredientRepository, name string, qty, threshold float64, updated time.Time) *model.Ingredient {
	t.Helper()

	ctx := context.Background()
	ing := &model.Ingredient{
		ID:             uuid.New(),
		Name:           name,
		NormalizedName: stock.Normalize(name),
		Quantity:       qty,
		Unit:           "kg",
		MinThreshold:   threshold,
		LastUpdated:    updated,
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx, ing))
	require.NoError(t, tx.Commit(ctx))

	return ing
}

func inTx(t *testing.T, repo repository.IngredientRepository, fn func(tx pgx.Tx)) {
	t.Helper()

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	fn(tx)

	require.NoError(t, tx.Commit(ctx))
}

func TestIngredientRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewIngredientRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Create and GetByID", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		ing := seedIngredient(t, repo, "Rice", 8, 3, time.Now())

		got, err := repo.GetByID(ctx, ing.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Rice", got.Name)
		assert.Equal(t, "rice", got.NormalizedName)
		assert.Equal(t, 8.0, got.Quantity)
	})

	t.Run("GetByID returns nil for non-existent ingredient", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("FindMatch prefers exact over substring", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		seedIngredient(t, repo, "Rice Flour", 5, 1, time.Now())
		exact := seedIngredient(t, repo, "Rice", 8, 3, time.Now().Add(-time.Hour))

		inTx(t, repo, func(tx pgx.Tx) {
			match, err := repo.FindMatch(ctx, tx, "rice")
			require.NoError(t, err)
			require.NotNil(t, match)
			assert.Equal(t, exact.ID, match.ID)
		})
	})

	t.Run("FindMatch breaks rank ties by recency", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		seedIngredient(t, repo, "Brown Rice", 2, 1, time.Now().Add(-2*time.Hour))
		newer := seedIngredient(t, repo, "White Rice", 2, 1, time.Now())

		// Both are superstrings of "rice"; the most recently updated wins.
		inTx(t, repo, func(tx pgx.Tx) {
			match, err := repo.FindMatch(ctx, tx, "rice")
			require.NoError(t, err)
			require.NotNil(t, match)
			assert.Equal(t, newer.ID, match.ID)
		})
	})

	t.Run("FindMatch matches substring of expense name", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		rice := seedIngredient(t, repo, "Rice", 8, 3, time.Now())

		inTx(t, repo, func(tx pgx.Tx) {
			match, err := repo.FindMatch(ctx, tx, stock.Normalize("Rice 5kg sack"))
			require.NoError(t, err)
			require.NotNil(t, match)
			assert.Equal(t, rice.ID, match.ID)
		})
	})

	t.Run("FindMatch returns nil for empty normalized name", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		seedIngredient(t, repo, "Rice", 8, 3, time.Now())

		inTx(t, repo, func(tx pgx.Tx) {
			match, err := repo.FindMatch(ctx, tx, "")
			require.NoError(t, err)
			assert.Nil(t, match)
		})
	})

	t.Run("AddQuantity increments and refreshes timestamp", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		ing := seedIngredient(t, repo, "Rice", 8, 3, time.Now().Add(-time.Hour))

		now := time.Now()
		inTx(t, repo, func(tx pgx.Tx) {
			require.NoError(t, repo.AddQuantity(ctx, tx, ing.ID, 5, now))
		})

		got, err := repo.GetByID(ctx, ing.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 13.0, got.Quantity)
		assert.WithinDuration(t, now, got.LastUpdated, time.Second)
	})

	t.Run("ListLowStock includes threshold boundary", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		seedIngredient(t, repo, "Salt", 2, 2, time.Now())    // at threshold: low
		seedIngredient(t, repo, "Pepper", 1, 2, time.Now())  // below: low
		seedIngredient(t, repo, "Sugar", 2.5, 2, time.Now()) // above: fine

		low, err := repo.ListLowStock(ctx)
		require.NoError(t, err)
		require.Len(t, low, 2)

		names := []string{low[0].Name, low[1].Name}
		assert.Contains(t, names, "Salt")
		assert.Contains(t, names, "Pepper")
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOrderRepository(testDB.Pool, logger)

	ctx := context.Background()

	createOrder := func(t *testing.T) (*model.Order, []model.OrderItem) {
		t.Helper()

		order := &model.Order{
			ID:          uuid.New(),
			TableNumber: 4,
			Status:      model.StatusPending,
			Subtotal:    320,
			Tax:         48,
			Total:       368,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		items := []model.OrderItem{
			{ID: uuid.New(), OrderID: order.ID, Name: "Grilled Salmon", Price: 120, Quantity: 2},
			{ID: uuid.New(), OrderID: order.ID, Name: "House Salad", Price: 80, Quantity: 1},
		}

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tx, order))
		require.NoError(t, repo.CreateItems(ctx, tx, items))
		require.NoError(t, tx.Commit(ctx))

		return order, items
	}

	t.Run("Create and GetByID round trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order, items := createOrder(t)

		got, gotItems, payments, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, order.ID, got.ID)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Equal(t, 368.0, got.Total)
		assert.Len(t, gotItems, len(items))
		assert.Empty(t, payments)
	})

	t.Run("RemoveItem reports missing item", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order, items := createOrder(t)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		found, err := repo.RemoveItem(ctx, tx, order.ID, items[0].ID)
		require.NoError(t, err)
		assert.True(t, found)

		found, err = repo.RemoveItem(ctx, tx, order.ID, uuid.New())
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, tx.Commit(ctx))
	})

	t.Run("List filters by status and table", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order, _ := createOrder(t)
		require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.StatusServed, time.Now()))

		served := model.StatusServed
		orders, err := repo.List(ctx, &served, nil)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)

		pending := model.StatusPending
		orders, err = repo.List(ctx, &pending, nil)
		require.NoError(t, err)
		assert.Empty(t, orders)

		table := 4
		orders, err = repo.List(ctx, nil, &table)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("AddPayment round trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order, _ := createOrder(t)

		payment := &model.OrderPayment{
			ID:      uuid.New(),
			OrderID: order.ID,
			Amount:  368,
			Method:  "card",
			PaidAt:  time.Now(),
		}
		require.NoError(t, repo.AddPayment(ctx, payment))

		_, _, payments, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, 368.0, payments[0].Amount)
		assert.Equal(t, "card", payments[0].Method)
	})
}
