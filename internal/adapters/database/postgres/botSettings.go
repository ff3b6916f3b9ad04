package postgres

import (
	"context"

	"github.com/membify/membify-bot/internal/domain/entity"
	"gorm.io/gorm"
)

type BotSettingsStorage struct {
	db *gorm.DB
}

func NewBotSettingsStorage(db *gorm.DB) *BotSettingsStorage {
	return &BotSettingsStorage{
		db: db,
	}
}

// GetByCommunityID is a function that gets the bot settings of a community.
func (s *BotSettingsStorage) GetByCommunityID(ctx context.Context, communityID string) (*entity.BotSettings, error) {
	var settings entity.BotSettings
	err := s.db.WithContext(ctx).Where("community_id = ?", communityID).First(&settings).Error
	return &settings, err
}

// Update is a function that updates bot settings in the database.
func (s *BotSettingsStorage) Update(ctx context.Context, settings *entity.BotSettings) (*entity.BotSettings, error) {
	err := s.db.WithContext(ctx).Save(&settings).Error
	return settings, err
}
