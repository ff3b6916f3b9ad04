package entity

import "time"

type NotificationKind string

const (
	// NotificationKindReminder covers first, second and legacy reminders.
	// Historical records predate the first/second split, so all three are
	// stored under one kind; the activity log keeps them apart.
	NotificationKindReminder   NotificationKind = "reminder"
	NotificationKindExpiration NotificationKind = "expiration"
)

// NotificationRecord marks that a notification was delivered to a member.
// Append-only; used for same-day duplicate suppression and audit history.
type NotificationRecord struct {
	ID          string           `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CommunityID string           `gorm:"not null;type:uuid;index"`
	MemberID    string           `gorm:"not null;type:uuid;index"`
	Kind        NotificationKind `gorm:"not null"`
	SentAt      time.Time        `gorm:"not null"`
}
