package entity

import (
	"time"
)

// BotSettings is the per-community notification configuration. Read-only to the
// scan subsystem, edited through the admin panel.
type BotSettings struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CommunityID string `gorm:"not null;type:uuid;uniqueIndex"`

	AutoRemoveExpired bool

	ExpiredSubscriptionMessage string
	FirstReminderMessage       string
	SecondReminderMessage      string
	// SubscriptionReminderMessage predates the first/second split and is still
	// honored for communities that never migrated.
	SubscriptionReminderMessage string

	FirstReminderDays        int
	SecondReminderDays       int
	SubscriptionReminderDays int

	FirstReminderImage  string
	SecondReminderImage string

	// AttachRenewalQR sends the expiration notice as a QR code photo of the
	// community renewal link instead of plain text.
	AttachRenewalQR bool

	BotSignature string
}
