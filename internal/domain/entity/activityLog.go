package entity

import "time"

type ActivityType string

const (
	ActivitySubscriptionExpired ActivityType = "subscription_expired"
	ActivityFirstReminderSent   ActivityType = "first_reminder_sent"
	ActivitySecondReminderSent  ActivityType = "second_reminder_sent"
	ActivityMemberRemoved       ActivityType = "member_removed"
	ActivityScanError           ActivityType = "scan_error"
)

// ActivityLogEntry is the append-only audit trail shown in the admin panel,
// separate from notification records.
type ActivityLogEntry struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	CommunityID string       `gorm:"type:uuid;index"`
	TelegramID  int64        `gorm:"index"`
	Type        ActivityType `gorm:"not null"`
	Details     string
}
