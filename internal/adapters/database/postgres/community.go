package postgres

import (
	"context"

	"github.com/membify/membify-bot/internal/domain/entity"
	"gorm.io/gorm"
)

type CommunityStorage struct {
	db *gorm.DB
}

func NewCommunityStorage(db *gorm.DB) *CommunityStorage {
	return &CommunityStorage{
		db: db,
	}
}

// Get is a function that gets a community from the database by id.
func (s *CommunityStorage) Get(ctx context.Context, id string) (*entity.Community, error) {
	var community entity.Community
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&community).Error
	return &community, err
}

// Update is a function that updates a community in the database.
func (s *CommunityStorage) Update(ctx context.Context, community *entity.Community) (*entity.Community, error) {
	err := s.db.WithContext(ctx).Save(&community).Error
	return community, err
}

// SetRenewalLink updates only the renewal link of a community.
func (s *CommunityStorage) SetRenewalLink(ctx context.Context, id string, link string) error {
	return s.db.WithContext(ctx).
		Model(&entity.Community{}).
		Where("id = ?", id).
		Update("renewal_link", link).Error
}
