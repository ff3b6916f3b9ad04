package entity

import (
	"time"
)

// Community is a paid telegram group or channel managed by the platform bot.
type Community struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"not null"`
	ChatID      int64  `gorm:"not null;uniqueIndex"`
	OwnerEmail  string
	RenewalLink string
}
