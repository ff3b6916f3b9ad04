package service

import (
	"context"
	"time"

	"github.com/membify/membify-bot/internal/domain/entity"
)

type notificationStorage interface {
	Create(ctx context.Context, notification *entity.NotificationRecord) error
	SentToday(ctx context.Context, memberID string, kind entity.NotificationKind, day time.Time) (bool, error)
}

// NotificationService records delivered notifications for audit history and
// same-day duplicate suppression.
type NotificationService struct {
	storage notificationStorage
	now     func() time.Time
}

func NewNotificationService(storage notificationStorage) *NotificationService {
	return &NotificationService{
		storage: storage,
		now:     time.Now,
	}
}

// LogSent appends the sent-record for a member.
func (s *NotificationService) LogSent(ctx context.Context, communityID, memberID string, kind entity.NotificationKind) error {
	return s.storage.Create(ctx, &entity.NotificationRecord{
		CommunityID: communityID,
		MemberID:    memberID,
		Kind:        kind,
		SentAt:      s.now(),
	})
}

// SentToday reports whether a notification of the kind already went out to the
// member during the current calendar day.
func (s *NotificationService) SentToday(ctx context.Context, memberID string, kind entity.NotificationKind) (bool, error) {
	return s.storage.SentToday(ctx, memberID, kind, s.now())
}
