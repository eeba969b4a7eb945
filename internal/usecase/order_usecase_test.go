package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"foodtruck/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	env      *testEnv
	cust     model.User
	owner    model.User
	truck    model.Truck
	burger   model.MenuItem
	fries    model.MenuItem
	carts    *CartUsecase
	orders   *OrderUsecase
	pickupAt time.Time
}

func newOrderFixture(t *testing.T) *orderFixture {
	env := newTestEnv(t)
	f := &orderFixture{env: env}
	f.cust = env.user(t, "c@example.com", model.RoleCustomer, model.UserStatusActive)
	f.owner = env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusActive)
	f.truck = env.truck(t, f.owner.ID, "Burgers", model.TruckStatusAvailable)
	f.burger = env.item(t, f.truck.ID, "Burger", 50)
	f.fries = env.item(t, f.truck.ID, "Fries", 30)
	f.carts = NewCartUsecase(env.tx, env.repos.Carts())
	f.orders = NewOrderUsecase(env.tx, env.repos.Orders(), env.repos.OrderItems(), env.clock)
	f.pickupAt = baseNow.Add(time.Hour)
	return f
}

func (f *orderFixture) place(t *testing.T) OrderDetail {
	t.Helper()
	ctx := context.Background()
	_, err := f.carts.AddToCart(ctx, f.cust.ID, AddCartInput{MenuItemID: f.burger.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.carts.AddToCart(ctx, f.cust.ID, AddCartInput{MenuItemID: f.fries.ID, Quantity: 1})
	require.NoError(t, err)

	out, err := f.orders.PlaceOrder(ctx, f.cust.ID, PlaceOrderInput{ScheduledPickupTime: f.pickupAt})
	require.NoError(t, err)
	return out
}

func TestPlaceOrder_SnapshotsTotalAndClearsCart(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	out := f.place(t)

	assert.True(t, decimal.NewFromInt(130).Equal(out.TotalPrice), "total=%s", out.TotalPrice)
	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Equal(t, f.truck.ID, out.TruckID)
	assert.Equal(t, baseNow.Add(30*time.Minute), out.EstimatedEarliestPickup)
	assert.Len(t, out.Items, 2)

	//DBにも明細2件
	assert.Equal(t, int64(2), count(t, f.env.db, &model.OrderItem{}, "order_id = ?", out.ID))

	cart, err := f.carts.GetCart(ctx, f.cust.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)

	detail, err := f.orders.GetMine(ctx, f.cust.ID, out.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(130).Equal(detail.TotalPrice))
	assert.Len(t, detail.Items, 2)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.PlaceOrder(context.Background(), f.cust.ID, PlaceOrderInput{ScheduledPickupTime: f.pickupAt})
	assertHTTPError(t, err, http.StatusBadRequest, "Cart is empty")
	assert.Equal(t, int64(0), count(t, f.env.db, &model.Order{}, "1 = 1"))
}

func TestPlaceOrder_RequiresPickupTime(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.PlaceOrder(context.Background(), f.cust.ID, PlaceOrderInput{})
	assertHTTPError(t, err, http.StatusBadRequest, "scheduledPickupTime is required")
}

func TestPlaceOrder_PriceChangeAfterOrderDoesNotAffectTotal(t *testing.T) {
	f := newOrderFixture(t)
	out := f.place(t)

	require.NoError(t, f.env.db.Model(&model.MenuItem{}).Where("id = ?", f.burger.ID).Update("price", decimal.NewFromInt(99)).Error)

	detail, err := f.orders.GetMine(context.Background(), f.cust.ID, out.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(130).Equal(detail.TotalPrice))
}

func TestGetMine_OtherUsersOrderIsNotFound(t *testing.T) {
	f := newOrderFixture(t)
	out := f.place(t)

	other := f.env.user(t, "x@example.com", model.RoleCustomer, model.UserStatusActive)
	_, err := f.orders.GetMine(context.Background(), other.ID, out.ID)
	assertHTTPError(t, err, http.StatusNotFound, "Order not found or does not belong to you")

	_, err = f.orders.Cancel(context.Background(), other.ID, out.ID)
	assertHTTPError(t, err, http.StatusNotFound, "Order not found or does not belong to you")
}

func TestCancel_Windows(t *testing.T) {
	cases := []struct {
		name    string
		status  model.OrderStatus
		elapsed time.Duration
		wantErr string
	}{
		{"pending later", model.OrderStatusPending, 2 * time.Hour, ""},
		{"preparing at 10:00", model.OrderStatusPreparing, 10 * time.Minute, ""},
		{"preparing at 10:01", model.OrderStatusPreparing, 10*time.Minute + time.Minute, "Cannot cancel order after 10 minutes when it is being prepared"},
		{"ready", model.OrderStatusReady, time.Minute, "Cannot cancel an order that is ready for pickup"},
		{"completed", model.OrderStatusCompleted, time.Minute, "Cannot cancel a completed order"},
		{"cancelled", model.OrderStatusCancelled, time.Minute, "Order is already cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newOrderFixture(t)
			out := f.place(t)
			require.NoError(t, f.env.db.Model(&model.Order{}).Where("id = ?", out.ID).Update("order_status", tc.status).Error)

			f.env.clock.now = baseNow.Add(tc.elapsed)
			got, err := f.orders.Cancel(context.Background(), f.cust.ID, out.ID)

			if tc.wantErr != "" {
				assertHTTPError(t, err, http.StatusBadRequest, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.OrderStatusCancelled, got.Status)
		})
	}
}

func TestListMine_OnlyOwnOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.place(t)

	mine, err := f.orders.ListMine(context.Background(), f.cust.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Burgers", mine[0].TruckName)

	detail, err := f.orders.GetMine(context.Background(), f.cust.ID, mine[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Burgers", detail.TruckName)
	assert.Equal(t, f.cust.Name, detail.CustomerName)
	assert.Len(t, detail.Items, 2)

	other := f.env.user(t, "x@example.com", model.RoleCustomer, model.UserStatusActive)
	theirs, err := f.orders.ListMine(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestPlaceOrder_TruckNoLongerAcceptingOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddToCart(ctx, f.cust.ID, AddCartInput{MenuItemID: f.burger.ID, Quantity: 1})
	require.NoError(t, err)

	//カートに入れた後で停止された
	require.NoError(t, f.env.repos.Trucks().UpdateTruckStatus(ctx, f.truck.ID, model.TruckStatusInactive, model.TruckOrderUnavailable))

	_, err = f.orders.PlaceOrder(ctx, f.cust.ID, PlaceOrderInput{ScheduledPickupTime: f.pickupAt})
	assertHTTPError(t, err, http.StatusBadRequest, "Truck is not accepting orders")

	//カートは残る
	cart, err := f.carts.GetCart(ctx, f.cust.ID)
	require.NoError(t, err)
	assert.Len(t, cart.CartItems, 1)
}
