package postgres

import (
	"context"
	"time"

	"github.com/membify/membify-bot/internal/domain/entity"
	"gorm.io/gorm"
)

type NotificationStorage struct {
	db *gorm.DB
}

func NewNotificationStorage(db *gorm.DB) *NotificationStorage {
	return &NotificationStorage{
		db: db,
	}
}

func (s *NotificationStorage) Create(ctx context.Context, notification *entity.NotificationRecord) error {
	return s.db.WithContext(ctx).Create(notification).Error
}

// SentToday reports whether a notification of the given kind was already
// recorded for the member on the given calendar day.
func (s *NotificationStorage) SentToday(ctx context.Context, memberID string, kind entity.NotificationKind, day time.Time) (bool, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.NotificationRecord{}).
		Where("member_id = ? AND kind = ? AND sent_at >= ? AND sent_at < ?",
			memberID, kind, dayStart, dayStart.Add(24*time.Hour)).
		Count(&count).Error

	return count > 0, err
}

// GetByMemberID returns the notification history of a member, newest first.
func (s *NotificationStorage) GetByMemberID(ctx context.Context, memberID string) ([]entity.NotificationRecord, error) {
	var records []entity.NotificationRecord
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("sent_at DESC").
		Find(&records).Error
	return records, err
}
