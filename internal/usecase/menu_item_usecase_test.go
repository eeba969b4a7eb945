package usecase

import (
	"context"
	"net/http"
	"testing"

	"foodtruck/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMenu(env *testEnv) *MenuItemUsecase {
	return NewMenuItemUsecase(env.repos.Trucks(), env.repos.MenuItems())
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestMenu_CreateDefaultsToFirstTruck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusActive)
	tr := env.truck(t, owner.ID, "Tacos", model.TruckStatusAvailable)
	uc := newMenu(env)

	item, err := uc.Create(ctx, principal(owner), CreateMenuItemInput{Name: "Taco", Category: "main", Price: price("4.50")})
	require.NoError(t, err)
	assert.Equal(t, tr.ID, item.TruckID)
	assert.Equal(t, model.MenuItemAvailable, item.Status)
}

func TestMenu_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusActive)
	other := env.user(t, "x@example.com", model.RoleTruckOwner, model.UserStatusActive)
	tr := env.truck(t, other.ID, "Ramen", model.TruckStatusAvailable)
	uc := newMenu(env)

	_, err := uc.Create(ctx, principal(owner), CreateMenuItemInput{Name: "Taco", Category: "main"})
	assertHTTPError(t, err, http.StatusBadRequest, "Name, price, and category are required")

	_, err = uc.Create(ctx, principal(owner), CreateMenuItemInput{Name: "Taco", Category: "main", Price: price("0")})
	assertHTTPError(t, err, http.StatusBadRequest, "Price must be a positive number")

	_, err = uc.Create(ctx, principal(owner), CreateMenuItemInput{Name: "Taco", Category: "main", Price: price("3")})
	assertHTTPError(t, err, http.StatusNotFound, "No trucks found for this owner")

	_, err = uc.Create(ctx, principal(owner), CreateMenuItemInput{TruckID: tr.ID, Name: "Taco", Category: "main", Price: price("3")})
	assertHTTPError(t, err, http.StatusNotFound, "Truck not found or you do not own this truck")
}

func TestMenu_UpdateAndSoftDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusActive)
	other := env.user(t, "x@example.com", model.RoleTruckOwner, model.UserStatusActive)
	tr := env.truck(t, owner.ID, "Tacos", model.TruckStatusAvailable)
	item := env.item(t, tr.ID, "Taco", 4)
	uc := newMenu(env)

	got, err := uc.Update(ctx, principal(owner), item.ID, UpdateMenuItemInput{Price: price("5.25")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5.25").Equal(got.Price))
	assert.Equal(t, "Taco", got.Name)

	_, err = uc.Update(ctx, principal(owner), item.ID, UpdateMenuItemInput{Price: price("-1")})
	assertHTTPError(t, err, http.StatusBadRequest, "Price must be a positive number")

	_, err = uc.Update(ctx, principal(other), item.ID, UpdateMenuItemInput{Price: price("1")})
	assertHTTPError(t, err, http.StatusNotFound, "Menu item not found or you do not own this truck")

	require.NoError(t, uc.Delete(ctx, principal(owner), item.ID))

	//行は残ってunavailableになる
	row, err := env.repos.MenuItems().FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MenuItemUnavailable, row.Status)

	public, err := uc.ListForTruck(ctx, tr.ID, "")
	require.NoError(t, err)
	assert.Empty(t, public)

	mine, err := uc.ListMine(ctx, principal(owner))
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestMenu_ListForTruckByCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "o@example.com", model.RoleTruckOwner, model.UserStatusActive)
	tr := env.truck(t, owner.ID, "Tacos", model.TruckStatusAvailable)
	env.item(t, tr.ID, "Taco", 4)
	drink := model.MenuItem{TruckID: tr.ID, Name: "Horchata", Category: "drinks", Price: decimal.NewFromInt(2), Status: model.MenuItemAvailable}
	require.NoError(t, env.db.Create(&drink).Error)

	items, err := newMenu(env).ListForTruck(ctx, tr.ID, "drinks")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Horchata", items[0].Name)
}
