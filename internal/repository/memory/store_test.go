package memory

import (
	"context"
	"testing"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryVersioning(t *testing.T) {
	repo := NewStore().Inventories()
	ctx := context.Background()
	productID := uuid.New()

	inv, err := repo.FindByProductAndLocation(ctx, productID, model.LocationStore)
	require.NoError(t, err)
	assert.Nil(t, inv, "missing row is not an error")

	created, err := repo.Upsert(ctx, productID, model.LocationStore, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	again, err := repo.Upsert(ctx, productID, model.LocationStore, 7)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, int64(2), again.Version)

	// a write based on the first snapshot loses
	stale := *created
	stale.Quantity = 4
	assert.ErrorIs(t, repo.UpdateQuantity(ctx, &stale), repository.ErrVersionConflict)

	fresh := *again
	fresh.Quantity = 6
	require.NoError(t, repo.UpdateQuantity(ctx, &fresh))
	assert.Equal(t, int64(3), fresh.Version)

	stored, err := repo.FindByProductAndLocation(ctx, productID, model.LocationStore)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Quantity)
	assert.Equal(t, int64(3), stored.Version)

	_, err = repo.Upsert(ctx, productID, model.LocationWarehouse, 1)
	require.NoError(t, err)
	rows, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.LocationStore, rows[0].Location)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	customer := &model.Customer{Name: "Jordan"}
	require.NoError(t, store.Customers().Create(ctx, customer))

	got, err := store.Customers().FindByID(ctx, customer.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := store.Customers().FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", again.Name)
}

func TestNotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Products().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Sales().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Sales().UpdateStatus(ctx, uuid.New(), model.SalePending), repository.ErrNotFound)
	assert.ErrorIs(t, store.Employees().UpdatePIN(ctx, uuid.New(), "x"), repository.ErrNotFound)
	assert.ErrorIs(t, store.Customers().Update(ctx, &model.Customer{BaseModel: model.BaseModel{ID: uuid.New()}}), repository.ErrNotFound)
}
