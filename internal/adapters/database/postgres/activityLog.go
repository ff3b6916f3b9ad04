package postgres

import (
	"context"

	"github.com/membify/membify-bot/internal/domain/entity"
	"gorm.io/gorm"
)

type ActivityLogStorage struct {
	db *gorm.DB
}

func NewActivityLogStorage(db *gorm.DB) *ActivityLogStorage {
	return &ActivityLogStorage{
		db: db,
	}
}

func (s *ActivityLogStorage) Create(ctx context.Context, entry *entity.ActivityLogEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// GetByCommunityID returns the activity trail of a community with pagination.
func (s *ActivityLogStorage) GetByCommunityID(ctx context.Context, communityID string, offset, limit int) ([]entity.ActivityLogEntry, error) {
	var entries []entity.ActivityLogEntry
	err := s.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, err
}
