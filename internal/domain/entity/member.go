package entity

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Member ties a telegram user to a community and a paid subscription.
// Members are created by the purchase flow; this service only transitions them.
type Member struct {
	ID                  string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CommunityID         string `gorm:"not null;type:uuid;index"`
	Community           Community
	TelegramID          int64 `gorm:"not null;index"`
	Username            string
	PlanName            string
	IsActive            bool               `gorm:"not null;default:true"`
	SubscriptionStatus  SubscriptionStatus `gorm:"not null;default:'active'"`
	SubscriptionEndDate *time.Time
}

// TimeUntilExpiration returns the remaining subscription time relative to now.
// The boolean is false when no end date is set.
func (m *Member) TimeUntilExpiration(now time.Time) (time.Duration, bool) {
	if m.SubscriptionEndDate == nil {
		return 0, false
	}
	return m.SubscriptionEndDate.Sub(now), true
}
