package model

import "time"

type Session struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"sessionId"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"`
	UserID    int64     `gorm:"not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}

// tokenとuserをjoinした結果
type SessionWithUser struct {
	Session Session
	User    User
}

func (s Session) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
