package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"foodtruck/internal/domain/model"
	"foodtruck/internal/repository"
)

// tokenのバイト数（hexで64文字）
const sessionTokenBytes = 32

// 無い・期限切れ
var ErrSessionNotFound = errors.New("session not found")

// 現在の時間
type Clock interface {
	Now() time.Time
}

// ログイン・登録時にhandlerへ返すセッション情報
type SessionDescriptor struct {
	Token     string
	UserID    int64
	Role      model.Role
	Name      string
	Email     string
	ExpiresAt time.Time
}

// SessionStore はセッションの発行・検証・削除
type SessionStore struct {
	sessions repository.SessionRepository
	clock    Clock
	ttl      time.Duration
}

// DI
func NewSessionStore(sessions repository.SessionRepository, clock Clock, ttl time.Duration) *SessionStore {
	return &SessionStore{sessions: sessions, clock: clock, ttl: ttl}
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create は新しいtokenを発行して保存する
func (s *SessionStore) Create(ctx context.Context, user model.User) (SessionDescriptor, error) {
	return s.CreateWith(ctx, s.sessions, user)
}

// CreateWith はTx内のrepoで保存する
func (s *SessionStore) CreateWith(ctx context.Context, sessions repository.SessionRepository, user model.User) (SessionDescriptor, error) {
	token, err := generateSecureToken(sessionTokenBytes)
	if err != nil {
		return SessionDescriptor{}, err
	}

	expiresAt := s.clock.Now().Add(s.ttl)
	sess := &model.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := sessions.Create(ctx, sess); err != nil {
		return SessionDescriptor{}, err
	}

	return SessionDescriptor{
		Token:     token,
		UserID:    user.ID,
		Role:      user.Role,
		Name:      user.Name,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate は有効なセッションだけ返す。期限は延長しない
func (s *SessionStore) Validate(ctx context.Context, token string) (model.SessionWithUser, error) {
	if token == "" {
		return model.SessionWithUser{}, ErrSessionNotFound
	}

	found, err := s.sessions.FindValidByToken(ctx, token, s.clock.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return model.SessionWithUser{}, ErrSessionNotFound
	}
	if err != nil {
		return model.SessionWithUser{}, err
	}
	return found, nil
}

// Delete は何度呼んでもよい
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByToken(ctx, token)
}

func generateSecureToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", fmt.Errorf("bytesLen must be positive")
	}

	// ランダムなバイト列を作る（OSが持つ安全な乱数）
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
