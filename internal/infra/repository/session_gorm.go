package repository

import (
	"context"
	"time"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"gorm.io/gorm"
)

type SessionGormRepository struct {
	db *gorm.DB
}

// DI
func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

func (r *SessionGormRepository) Create(ctx context.Context, s *model.Session) error {
	return translateErr(r.db.WithContext(ctx).Create(s).Error)
}

// 期限切れ（expires_at <= now）は見つからない扱い
func (r *SessionGormRepository) FindValidByToken(ctx context.Context, token string, now time.Time) (model.SessionWithUser, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.token = ? AND sessions.expires_at > ?", token, now).
		First(&s).Error
	if err != nil {
		return model.SessionWithUser{}, translateErr(err)
	}

	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", s.UserID).First(&u).Error; err != nil {
		return model.SessionWithUser{}, translateErr(err)
	}

	return model.SessionWithUser{Session: s, User: u}, nil
}

func (r *SessionGormRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.Session{}).Error
}

// 本人のセッションだけ消せる
func (r *SessionGormRepository) DeleteByIDForUser(ctx context.Context, userID int64, sessionID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&model.Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SessionGormRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Session{})
	return res.RowsAffected, res.Error
}

func (r *SessionGormRepository) ListByUserID(ctx context.Context, userID int64, now time.Time) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at desc").
		Find(&sessions).Error
	if err != nil {
		return []model.Session{}, err
	}
	return sessions, nil
}

// 期限切れの掃除
func (r *SessionGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
