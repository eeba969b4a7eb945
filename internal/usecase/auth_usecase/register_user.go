package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"foodtruck/internal/domain/model"
	"foodtruck/internal/repository"
)

// 会員登録の入力
type RegisterUserInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	Birthdate *time.Time
	TruckName string
}

// 会員登録の出力（truckownerはSessionなし）
type RegisterUserOutput struct {
	User             model.User
	TruckName        string
	RequiresApproval bool
	Session          *SessionDescriptor
}

var (
	// 入力が不正
	ErrMissingFields      = errors.New("Name, email, and password are required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrInvalidRole        = errors.New("Invalid role")
	ErrTruckNameRequired  = errors.New("Truck name is required for truck owner registration")

	// 競合
	ErrEmailAlreadyExists = errors.New("User with this email already exists")
	ErrTruckNameTaken     = errors.New("Truck with this name already exists")
)

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	users    repository.UserRepository
	tx       repository.TransactionManager
	hasher   PasswordHasher
	sessions *SessionStore
}

// DI
func NewRegisterUserUsecase(
	users repository.UserRepository,
	tx repository.TransactionManager,
	hasher PasswordHasher,
	sessions *SessionStore,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		users:    users,
		tx:       tx,
		hasher:   hasher,
		sessions: sessions,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	truckName := strings.TrimSpace(in.TruckName)

	//入力チェック
	if name == "" || email == "" || in.Password == "" {
		return out, ErrMissingFields
	}
	if !isValidEmailFormat(email) {
		return out, ErrInvalidEmailFormat
	}

	role := model.Role(strings.TrimSpace(in.Role))
	if role == "" {
		role = model.RoleCustomer
	}
	//adminは自己登録できない
	if role != model.RoleCustomer && role != model.RoleTruckOwner {
		return out, ErrInvalidRole
	}
	if role == model.RoleTruckOwner && truckName == "" {
		return out, ErrTruckNameRequired
	}

	// email重複チェック
	_, err := u.users.FindByEmail(ctx, email)
	if err == nil {
		return out, ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Role:         role,
		Status:       model.UserStatusActive,
		Birthdate:    in.Birthdate,
	}

	if role == model.RoleTruckOwner {
		//承認待ち：ユーザーとトラックを同じTxで作る
		user.Status = model.UserStatusPending
		err := u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
			if err := r.Users().Create(ctx, user); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return ErrEmailAlreadyExists
				}
				return err
			}
			truck := &model.Truck{
				Name:        truckName,
				OwnerID:     user.ID,
				TruckStatus: model.TruckStatusPending,
				OrderStatus: model.TruckOrderUnavailable,
			}
			if err := r.Trucks().Create(ctx, truck); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return ErrTruckNameTaken
				}
				return err
			}
			return nil
		})
		if err != nil {
			return out, err
		}

		out.User = *user
		out.TruckName = truckName
		out.RequiresApproval = true
		return out, nil
	}

	//customerはそのままログイン状態にする：ユーザーとセッションを同じTxで作る
	var sess SessionDescriptor
	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrEmailAlreadyExists
			}
			return err
		}
		created, err := u.sessions.CreateWith(ctx, r.Sessions(), *user)
		if err != nil {
			return err
		}
		sess = created
		return nil
	})
	if err != nil {
		return out, err
	}

	out.User = *user
	out.Session = &sess
	return out, nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}
