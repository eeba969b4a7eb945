package auth

import (
	"context"
	"errors"
	"strings"

	"foodtruck/internal/domain/model"
	"foodtruck/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User    model.User
	Session SessionDescriptor
}

var (
	ErrLoginMissingFields = errors.New("Email and password are required")
	// メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// 承認待ち
	ErrPendingApproval = errors.New("Your account is pending admin approval. Please wait for approval to login.")
	// 停止済みユーザー
	ErrUserInactive = errors.New("Your account has been deactivated. Please contact support.")
)

type LoginUsecase struct {
	users    repository.UserRepository
	verifier PasswordVerifier
	sessions *SessionStore
}

func NewLoginUsecase(
	users repository.UserRepository,
	verifier PasswordVerifier,
	sessions *SessionStore,
) *LoginUsecase {
	return &LoginUsecase{
		users:    users,
		verifier: verifier,
		sessions: sessions,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return out, ErrLoginMissingFields
	}

	//emailでユーザー取得
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//パスワード照合（状態より先に見る）
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	//承認待ちは「パスワード違い」と区別して返す
	if user.Status == model.UserStatusPending {
		return out, ErrPendingApproval
	}
	//停止ユーザーはログイン不可（adminは除く）
	if user.Status == model.UserStatusInactive && user.Role != model.RoleAdmin {
		return out, ErrUserInactive
	}

	sess, err := u.sessions.Create(ctx, user)
	if err != nil {
		return out, err
	}

	out.User = user
	out.Session = sess
	return out, nil
}

// ログアウト（tokenが無くてもOK）
func (u *LoginUsecase) Logout(ctx context.Context, token string) error {
	return u.sessions.Delete(ctx, token)
}
