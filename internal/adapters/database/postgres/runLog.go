package postgres

import (
	"context"

	"github.com/membify/membify-bot/internal/domain/entity"
	"gorm.io/gorm"
)

type RunLogStorage struct {
	db *gorm.DB
}

func NewRunLogStorage(db *gorm.DB) *RunLogStorage {
	return &RunLogStorage{
		db: db,
	}
}

func (s *RunLogStorage) Create(ctx context.Context, runLog *entity.RunLog) error {
	return s.db.WithContext(ctx).Create(runLog).Error
}

// GetLatest returns the most recent scan runs, newest first.
func (s *RunLogStorage) GetLatest(ctx context.Context, limit int) ([]entity.RunLog, error) {
	var runs []entity.RunLog
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
