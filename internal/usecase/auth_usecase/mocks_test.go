package auth

import (
	"context"
	"time"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// UserRepository モック
// =====================

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 100
	}
	return args.Error(0)
}

func (m *MockUserRepo) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID int64, p repo.UserProfilePatch) (model.User, error) {
	panic("not used in auth tests")
}

func (m *MockUserRepo) UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error {
	panic("not used in auth tests")
}

func (m *MockUserRepo) ApprovePending(ctx context.Context, userID int64) (model.User, error) {
	panic("not used in auth tests")
}

func (m *MockUserRepo) FindPendingOwner(ctx context.Context, userID int64) (model.User, error) {
	panic("not used in auth tests")
}

func (m *MockUserRepo) ListPendingOwners(ctx context.Context) ([]model.User, error) {
	panic("not used in auth tests")
}

func (m *MockUserRepo) ListNonAdmin(ctx context.Context) ([]model.User, error) {
	panic("not used in auth tests")
}

func (m *MockUserRepo) Delete(ctx context.Context, userID int64) error {
	panic("not used in auth tests")
}

func (m *MockUserRepo) Stats(ctx context.Context) (model.AdminStats, error) {
	panic("not used in auth tests")
}

// =====================
// SessionRepository モック
// =====================

type MockSessionRepo struct{ mock.Mock }

func (m *MockSessionRepo) Create(ctx context.Context, s *model.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepo) FindValidByToken(ctx context.Context, token string, now time.Time) (model.SessionWithUser, error) {
	args := m.Called(ctx, token, now)
	s, _ := args.Get(0).(model.SessionWithUser)
	return s, args.Error(1)
}

func (m *MockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionRepo) DeleteByIDForUser(ctx context.Context, userID int64, sessionID int64) error {
	panic("not used in auth tests")
}

func (m *MockSessionRepo) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	panic("not used in auth tests")
}

func (m *MockSessionRepo) ListByUserID(ctx context.Context, userID int64, now time.Time) ([]model.Session, error) {
	panic("not used in auth tests")
}

func (m *MockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	panic("not used in auth tests")
}

// =====================
// TruckRepository モック（Createだけ使う）
// =====================

type MockTruckRepo struct {
	mock.Mock
	repo.TruckRepository
}

func (m *MockTruckRepo) Create(ctx context.Context, t *model.Truck) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// =====================
// TxManager / TxRepos モック
// =====================

type MockTxManager struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録
	m.Called(ctx)
	return fn(m.Repos)
}

type authTxRepos struct {
	repo.TxRepos
	users    repo.UserRepository
	trucks   repo.TruckRepository
	sessions repo.SessionRepository
}

func (r *authTxRepos) Users() repo.UserRepository       { return r.users }
func (r *authTxRepos) Trucks() repo.TruckRepository     { return r.trucks }
func (r *authTxRepos) Sessions() repo.SessionRepository { return r.sessions }

// =====================
// 固定クロック / パスワード
// =====================

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type plainVerifier struct{}

func (plainVerifier) Verify(plain string, hashed string) bool { return hashed == "hashed:"+plain }
