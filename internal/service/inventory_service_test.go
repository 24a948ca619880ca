package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"retail-backoffice/internal/events"
	"retail-backoffice/internal/metrics"
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error { return errors.New("broker down") }
func (failingPublisher) Close() error                                { return nil }

func newInventoryFixture(t *testing.T, publisher events.Publisher) (InventoryService, *model.Product, *metrics.Metrics) {
	t.Helper()
	store := memory.NewStore()
	product := &model.Product{Name: "Velocity Pro", ProductType: "Road Bike", Supplier: "Velocity Cycles"}
	require.NoError(t, store.Products().Create(context.Background(), product))

	m := metrics.New()
	return NewInventoryService(store.Products(), store.Inventories(), publisher, m, zaptest.NewLogger(t)), product, m
}

func quantity(n int) *int { return &n }

func TestUpdateProductInventory_CreatesThenOverwrites(t *testing.T) {
	svc, product, m := newInventoryFixture(t, events.Nop)
	ctx := context.Background()

	inv, err := svc.UpdateProductInventory(ctx, product.ID, &UpdateInventoryRequest{Location: "warehouse", Quantity: quantity(12)})
	require.NoError(t, err)
	assert.Equal(t, model.LocationWarehouse, inv.Location)
	assert.Equal(t, 12, inv.Quantity)
	firstVersion := inv.Version

	inv, err = svc.UpdateProductInventory(ctx, product.ID, &UpdateInventoryRequest{Location: "WAREHOUSE", Quantity: quantity(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, inv.Quantity)
	assert.Greater(t, inv.Version, firstVersion)

	rows, err := svc.GetProductInventory(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.InventoryUpserts))
}

func TestUpdateProductInventory_Rejects(t *testing.T) {
	svc, product, _ := newInventoryFixture(t, events.Nop)
	ctx := context.Background()

	_, err := svc.UpdateProductInventory(ctx, uuid.New(), &UpdateInventoryRequest{Location: "STORE", Quantity: quantity(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	for _, req := range []*UpdateInventoryRequest{
		{Location: "STORE", Quantity: quantity(-1)},
		{Location: "STORE"},
		{Location: "ATTIC", Quantity: quantity(1)},
		{Quantity: quantity(1)},
	} {
		_, err := svc.UpdateProductInventory(ctx, product.ID, req)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%+v", req)
	}

	// zero is a legal absolute quantity
	_, err = svc.UpdateProductInventory(ctx, product.ID, &UpdateInventoryRequest{Location: "STORE", Quantity: quantity(0)})
	assert.NoError(t, err)
}

func TestGetInventoryAt(t *testing.T) {
	svc, product, _ := newInventoryFixture(t, events.Nop)
	ctx := context.Background()

	inv, err := svc.GetInventoryAt(ctx, product.ID, model.LocationStore)
	require.NoError(t, err)
	assert.Nil(t, inv)

	_, err = svc.UpdateProductInventory(ctx, product.ID, &UpdateInventoryRequest{Location: "STORE", Quantity: quantity(4)})
	require.NoError(t, err)

	inv, err = svc.GetInventoryAt(ctx, product.ID, model.LocationStore)
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, 4, inv.Quantity)

	_, err = svc.GetInventoryAt(ctx, uuid.New(), model.LocationStore)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductInventory_PublishFailureIsNotReturned(t *testing.T) {
	svc, product, m := newInventoryFixture(t, failingPublisher{})

	_, err := svc.UpdateProductInventory(context.Background(), product.ID, &UpdateInventoryRequest{Location: "STORE", Quantity: quantity(1)})
	require.NoError(t, err)

	// wait for the background publish so the test logger is not used after the test ends
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.EventPublishFails.WithLabelValues(events.ActionInventoryUpdated)) == 1
	}, time.Second, 5*time.Millisecond)
}
