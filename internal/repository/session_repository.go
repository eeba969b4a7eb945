package repository

import (
	"context"
	"time"

	"foodtruck/internal/domain/model"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// expires_at > now のものだけ返す
	FindValidByToken(ctx context.Context, token string, now time.Time) (model.SessionWithUser, error)
	//無くてもエラーにしない
	DeleteByToken(ctx context.Context, token string) error
	DeleteByIDForUser(ctx context.Context, userID int64, sessionID int64) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	ListByUserID(ctx context.Context, userID int64, now time.Time) ([]model.Session, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
