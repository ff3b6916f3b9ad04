package entity

import (
	"time"

	"github.com/lib/pq"
)

type RunAction string

const (
	ActionSkip           RunAction = "skip"
	ActionExpiration     RunAction = "expiration"
	ActionFirstReminder  RunAction = "first_reminder"
	ActionSecondReminder RunAction = "second_reminder"
	ActionLegacyReminder RunAction = "legacy_reminder"
	ActionNoReminder     RunAction = "no_reminder_needed"
	ActionError          RunAction = "error"
)

// RunResult is the outcome of evaluating a single member during a scan pass.
type RunResult struct {
	MemberID   string    `json:"member_id"`
	TelegramID int64     `json:"telegram_id"`
	Action     RunAction `json:"action"`
	Details    string    `json:"details"`
}

// RunLog is the per-invocation aggregate audit record, written once at the end
// of every scan.
type RunLog struct {
	ID              string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StartedAt       time.Time      `gorm:"not null"`
	FinishedAt      time.Time      `gorm:"not null"`
	TotalCandidates int            `gorm:"not null"`
	Processed       int            `gorm:"not null"`
	Actions         pq.StringArray `gorm:"type:text[]"`
	Results         []RunResult    `gorm:"serializer:json"`
}
