package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"foodtruck/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTruckOrders(f *orderFixture) *TruckOrderUsecase {
	r := f.env.repos
	return NewTruckOrderUsecase(f.env.tx, r.Trucks(), r.Orders(), r.OrderItems(), f.env.log)
}

func TestTruckOrders_UpdateStatusFlow(t *testing.T) {
	f := newOrderFixture(t)
	out := f.place(t)
	uc := newTruckOrders(f)
	ctx := context.Background()
	p := principal(f.owner)

	got, err := uc.UpdateStatus(ctx, p, out.ID, UpdateOrderStatusInput{Status: "preparing"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, got.Status)

	eep := baseNow.Add(45 * time.Minute)
	got, err = uc.UpdateStatus(ctx, p, out.ID, UpdateOrderStatusInput{Status: "ready", EstimatedEarliestPickup: &eep})
	require.NoError(t, err)
	assert.Equal(t, eep, got.EstimatedEarliestPickup)

	//後戻りは通す
	got, err = uc.UpdateStatus(ctx, p, out.ID, UpdateOrderStatusInput{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	_, err = uc.UpdateStatus(ctx, p, out.ID, UpdateOrderStatusInput{Status: "completed"})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, p, out.ID, UpdateOrderStatusInput{Status: "ready"})
	assertHTTPError(t, err, http.StatusBadRequest, "Cannot update a completed order")
}

func TestTruckOrders_CancelledIsTerminal(t *testing.T) {
	f := newOrderFixture(t)
	out := f.place(t)
	uc := newTruckOrders(f)

	_, err := f.orders.Cancel(context.Background(), f.cust.ID, out.ID)
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), principal(f.owner), out.ID, UpdateOrderStatusInput{Status: "preparing"})
	assertHTTPError(t, err, http.StatusBadRequest, "Cannot update a cancelled order")
}

func TestTruckOrders_InvalidStatusAndForeignTruck(t *testing.T) {
	f := newOrderFixture(t)
	out := f.place(t)
	uc := newTruckOrders(f)
	ctx := context.Background()

	_, err := uc.UpdateStatus(ctx, principal(f.owner), out.ID, UpdateOrderStatusInput{Status: "shipped"})
	assertHTTPError(t, err, http.StatusBadRequest, "Valid orderStatus is required (pending, preparing, ready, completed, cancelled)")

	stranger := f.env.user(t, "s@example.com", model.RoleTruckOwner, model.UserStatusActive)
	_, err = uc.UpdateStatus(ctx, principal(stranger), out.ID, UpdateOrderStatusInput{Status: "ready"})
	assertHTTPError(t, err, http.StatusNotFound, "Order not found or does not belong to your truck")

	_, err = uc.Get(ctx, principal(stranger), out.ID)
	assertHTTPError(t, err, http.StatusNotFound, "Order not found or does not belong to your truck")

	_, err = uc.ListForTruck(ctx, principal(stranger), f.truck.ID)
	assertHTTPError(t, err, http.StatusNotFound, "Truck not found or you do not own this truck")
}

func TestTruckOrders_ListForOwner(t *testing.T) {
	f := newOrderFixture(t)
	f.place(t)
	uc := newTruckOrders(f)

	list, err := uc.ListForOwner(context.Background(), principal(f.owner))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Items, 2)
	assert.Equal(t, f.cust.Name, list[0].CustomerName)
	assert.Equal(t, f.cust.Email, list[0].CustomerEmail)
	assert.Equal(t, "Burgers", list[0].TruckName)

	got, err := uc.Get(context.Background(), principal(f.owner), list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, f.cust.Email, got.CustomerEmail)

	_, err = uc.ListForOwner(context.Background(), principal(f.cust))
	assertHTTPError(t, err, http.StatusForbidden, "")
}
