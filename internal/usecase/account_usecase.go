package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"
	auth "foodtruck/internal/usecase/auth_usecase"
)

// 本人のプロフィールとセッション
type AccountUsecase struct {
	tx       repo.TransactionManager
	users    repo.UserRepository
	sessions repo.SessionRepository
	hasher   auth.PasswordHasher
	clock    Clock
}

func NewAccountUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	sessions repo.SessionRepository,
	hasher auth.PasswordHasher,
	clock Clock,
) *AccountUsecase {
	return &AccountUsecase{tx: tx, users: users, sessions: sessions, hasher: hasher, clock: clock}
}

type UpdateProfileInput struct {
	Name      *string
	Email     *string
	Password  *string
	Birthdate *time.Time
}

// tokenはそのまま返さない
type SessionView struct {
	ID        int64     `json:"sessionId"`
	TokenHint string    `json:"tokenHint"`
	Current   bool      `json:"current"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *AccountUsecase) Me(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

func (u *AccountUsecase) UpdateMe(ctx context.Context, userID int64, in UpdateProfileInput) (model.User, error) {
	var patch repo.UserProfilePatch
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "Name cannot be empty")
		}
		patch.Name = &v
	}
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(v); err != nil || !strings.Contains(v, "@") {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
		}
		patch.Email = &v
	}
	//空文字は変更なし
	if in.Password != nil && *in.Password != "" {
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		patch.PasswordHash = &hashed
	}
	if in.Birthdate != nil {
		v := in.Birthdate.UTC()
		patch.Birthdate = &v
	}

	user, err := u.users.UpdateProfile(ctx, userID, patch)
	if errors.Is(err, repo.ErrConflict) {
		return model.User{}, NewHTTPError(http.StatusConflict, "Email already exists")
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

// 退会（トラック・注文も含めて消す）
func (u *AccountUsecase) DeleteMe(ctx context.Context, userID int64) error {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		return purgeUser(ctx, r, userID)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 有効なセッション一覧。currentTokenに一致するものに印をつける
func (u *AccountUsecase) ListSessions(ctx context.Context, userID int64, currentToken string) ([]SessionView, error) {
	sessions, err := u.sessions.ListByUserID(ctx, userID, u.clock.Now())
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionView{
			ID:        s.ID,
			TokenHint: maskToken(s.Token),
			Current:   s.Token == currentToken,
			ExpiresAt: s.ExpiresAt,
			CreatedAt: s.CreatedAt,
		})
	}
	return out, nil
}

func (u *AccountUsecase) RevokeSession(ctx context.Context, userID int64, sessionID int64) error {
	if sessionID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	err := u.sessions.DeleteByIDForUser(ctx, userID, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Session not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 全端末ログアウト
func (u *AccountUsecase) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	n, err := u.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:8] + "..."
}
