package usecase

import (
	"context"
	"net/http"
	"testing"

	"foodtruck/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdmin(env *testEnv) *AdminUsecase {
	r := env.repos
	return NewAdminUsecase(env.tx, r.Users(), r.Trucks(), r.MenuItems(), env.log)
}

func TestAdmin_ApproveActivatesOwnerAndTruck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusPending)
	tr := env.truck(t, owner.ID, "Pending Tacos", model.TruckStatusPending)

	uc := newAdmin(env)
	got, err := uc.Approve(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, got.Status)

	reloaded, err := env.repos.Trucks().FindByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TruckStatusAvailable, reloaded.TruckStatus)

	//2回目はもうpendingではない
	_, err = uc.Approve(ctx, owner.ID)
	assertHTTPError(t, err, http.StatusNotFound, "Pending user not found")
}

func TestAdmin_RejectRemovesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusPending)
	tr := env.truck(t, owner.ID, "Pending Tacos", model.TruckStatusPending)
	item := env.item(t, tr.ID, "Taco", 4)
	env.session(t, owner.ID, "tok-owner")

	uc := newAdmin(env)
	got, err := uc.Reject(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.Email, got.Email)

	_, err = env.repos.Users().FindByID(ctx, owner.ID)
	assert.ErrorIs(t, err, errNotFound())
	_, err = env.repos.Trucks().FindByID(ctx, tr.ID)
	assert.ErrorIs(t, err, errNotFound())
	_, err = env.repos.MenuItems().FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, errNotFound())
	assert.Equal(t, int64(0), count(t, env.db, &model.Session{}, "user_id = ?", owner.ID))
}

func TestAdmin_RejectOnlyPendingOwners(t *testing.T) {
	env := newTestEnv(t)
	cust := env.user(t, "c@example.com", model.RoleCustomer, model.UserStatusActive)

	_, err := newAdmin(env).Reject(context.Background(), cust.ID)
	assertHTTPError(t, err, http.StatusNotFound, "Pending user not found")
}

func TestAdmin_DeactivateCascadesToTrucksAndSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusActive)
	tr := env.truck(t, owner.ID, "Tacos", model.TruckStatusAvailable)
	env.session(t, owner.ID, "tok-owner")

	uc := newAdmin(env)
	got, err := uc.UpdateUserStatus(ctx, owner.ID, "inactive")
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusInactive, got.Status)

	reloaded, err := env.repos.Trucks().FindByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TruckStatusInactive, reloaded.TruckStatus)
	assert.Equal(t, model.TruckOrderUnavailable, reloaded.OrderStatus)
	assert.Equal(t, int64(0), count(t, env.db, &model.Session{}, "user_id = ?", owner.ID))

	_, err = uc.UpdateUserStatus(ctx, owner.ID, "active")
	require.NoError(t, err)
	reloaded, err = env.repos.Trucks().FindByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TruckStatusAvailable, reloaded.TruckStatus)
	assert.Equal(t, model.TruckOrderAvailable, reloaded.OrderStatus)
}

func TestAdmin_CannotTouchAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.user(t, "root@example.com", model.RoleAdmin, model.UserStatusActive)
	uc := newAdmin(env)

	_, err := uc.UpdateUserStatus(ctx, admin.ID, "inactive")
	assertHTTPError(t, err, http.StatusForbidden, "Cannot modify admin users")

	err = uc.DeleteUser(ctx, admin.ID)
	assertHTTPError(t, err, http.StatusForbidden, "Cannot delete admin users")

	_, err = uc.UpdateUserStatus(ctx, admin.ID, "banned")
	assertHTTPError(t, err, http.StatusBadRequest, "Valid status is required (active or inactive)")
}

func TestAdmin_DeleteCustomerRemovesOrders(t *testing.T) {
	f := newOrderFixture(t)
	out := f.place(t)
	ctx := context.Background()

	require.NoError(t, newAdmin(f.env).DeleteUser(ctx, f.cust.ID))

	_, err := f.env.repos.Orders().FindByID(ctx, out.ID)
	assert.ErrorIs(t, err, errNotFound())
	assert.Equal(t, int64(0), count(t, f.env.db, &model.OrderItem{}, "order_id = ?", out.ID))
	//オーナー側は残る
	_, err = f.env.repos.Trucks().FindByID(ctx, f.truck.ID)
	assert.NoError(t, err)
}

func TestAdmin_TruckStatusAndStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusActive)
	env.user(t, "p@example.com", model.RoleTruckOwner, model.UserStatusPending)
	env.user(t, "c@example.com", model.RoleCustomer, model.UserStatusActive)
	tr := env.truck(t, owner.ID, "Tacos", model.TruckStatusAvailable)

	uc := newAdmin(env)
	got, err := uc.UpdateTruckStatus(ctx, tr.ID, "inactive")
	require.NoError(t, err)
	assert.Equal(t, model.TruckStatusInactive, got.TruckStatus)
	assert.Equal(t, model.TruckOrderUnavailable, got.OrderStatus)

	got, err = uc.UpdateTruckStatus(ctx, tr.ID, "available")
	require.NoError(t, err)
	assert.Equal(t, model.TruckStatusAvailable, got.TruckStatus)
	assert.Equal(t, model.TruckOrderAvailable, got.OrderStatus)

	_, err = uc.UpdateTruckStatus(ctx, tr.ID, "pending")
	assertHTTPError(t, err, http.StatusBadRequest, "Valid truckstatus is required (available or inactive)")

	_, err = uc.UpdateTruckStatus(ctx, 999, "available")
	assertHTTPError(t, err, http.StatusNotFound, "Truck not found")

	s, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.TotalUsers)
	assert.Equal(t, int64(1), s.TotalTrucks)
	assert.Equal(t, int64(1), s.TotalCustomers)
	assert.Equal(t, int64(1), s.TotalOwners)
	assert.Equal(t, int64(1), s.PendingApprovals)

	trucks, err := uc.ListTrucks(ctx)
	require.NoError(t, err)
	require.Len(t, trucks, 1)
	assert.Equal(t, owner.Email, trucks[0].OwnerEmail)
}
