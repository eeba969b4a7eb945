package usecase

import (
	"io"
	"testing"
	"time"

	"foodtruck/internal/authz"
	"foodtruck/internal/domain/model"
	infradb "foodtruck/internal/infra/db"
	infrarepo "foodtruck/internal/infra/repository"
	repo "foodtruck/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseNow = time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

// テスト用の一式（sqliteインメモリ）
type testEnv struct {
	db    *gorm.DB
	repos repo.TxRepos
	tx    repo.TransactionManager
	clock *fixedClock
	log   *logrus.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := infradb.OpenInMemory()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &testEnv{
		db:    db,
		repos: infrarepo.NewRepos(db),
		tx:    infrarepo.NewTxManagerGorm(db),
		clock: &fixedClock{now: baseNow},
		log:   log,
	}
}

func (e *testEnv) user(t *testing.T, email string, role model.Role, status model.UserStatus) model.User {
	t.Helper()
	u := model.User{Name: email, Email: email, PasswordHash: "x", Role: role, Status: status}
	require.NoError(t, e.db.Create(&u).Error)
	return u
}

func (e *testEnv) truck(t *testing.T, ownerID int64, name string, ts model.TruckStatus) model.Truck {
	t.Helper()
	tr := model.Truck{Name: name, OwnerID: ownerID, TruckStatus: ts, OrderStatus: model.TruckOrderAvailable}
	require.NoError(t, e.db.Create(&tr).Error)
	return tr
}

func (e *testEnv) item(t *testing.T, truckID int64, name string, price int64) model.MenuItem {
	t.Helper()
	m := model.MenuItem{
		TruckID:  truckID,
		Name:     name,
		Category: "main",
		Price:    decimal.NewFromInt(price),
		Status:   model.MenuItemAvailable,
	}
	require.NoError(t, e.db.Create(&m).Error)
	return m
}

func (e *testEnv) session(t *testing.T, userID int64, token string) {
	t.Helper()
	s := model.Session{Token: token, UserID: userID, ExpiresAt: baseNow.Add(24 * time.Hour)}
	require.NoError(t, e.db.Create(&s).Error)
}

func principal(u model.User) authz.Principal {
	return authz.Principal{UserID: u.ID, Role: u.Role, Status: u.Status}
}

func assertHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
	if msg != "" {
		assert.Equal(t, msg, he.Message)
	}
}

func count(t *testing.T, db *gorm.DB, m interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(where, args...).Count(&n).Error)
	return n
}

func errNotFound() error { return repo.ErrNotFound }
