package repository

import (
	"context"
	"time"

	"foodtruck/internal/domain/model"
)

// プロフィール更新（nilは変更なし）
type UserProfilePatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Birthdate    *time.Time
}

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（emailが重複ならErrConflict）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, p UserProfilePatch) (model.User, error)
	UpdateStatus(ctx context.Context, userID int64, status model.UserStatus) error
	//pendingのtruckownerだけactiveにする
	ApprovePending(ctx context.Context, userID int64) (model.User, error)
	FindPendingOwner(ctx context.Context, userID int64) (model.User, error)
	ListPendingOwners(ctx context.Context) ([]model.User, error)
	//admin以外
	ListNonAdmin(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, userID int64) error
	Stats(ctx context.Context) (model.AdminStats, error)
}
