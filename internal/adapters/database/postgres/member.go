package postgres

import (
	"context"

	"github.com/membify/membify-bot/internal/domain/entity"
	"gorm.io/gorm"
)

type MemberStorage struct {
	db *gorm.DB
}

func NewMemberStorage(db *gorm.DB) *MemberStorage {
	return &MemberStorage{
		db: db,
	}
}

// Get is a function that gets a member from the database by id.
func (s *MemberStorage) Get(ctx context.Context, id string) (*entity.Member, error) {
	var member entity.Member
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	return &member, err
}

// GetDueForCheck returns members eligible for a lifecycle scan: active flag set
// and a subscription end date present, regardless of stored status.
func (s *MemberStorage) GetDueForCheck(ctx context.Context) ([]entity.Member, error) {
	var members []entity.Member
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND subscription_end_date IS NOT NULL", true).
		Find(&members).Error
	return members, err
}

// Update is a function that updates a member in the database.
func (s *MemberStorage) Update(ctx context.Context, member *entity.Member) (*entity.Member, error) {
	err := s.db.WithContext(ctx).Save(&member).Error
	return member, err
}

// SetStatus updates only the subscription status of a member.
func (s *MemberStorage) SetStatus(ctx context.Context, id string, status entity.SubscriptionStatus) error {
	return s.db.WithContext(ctx).
		Model(&entity.Member{}).
		Where("id = ?", id).
		Update("subscription_status", status).Error
}

// SetInactive clears the active flag of a member.
func (s *MemberStorage) SetInactive(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&entity.Member{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// Count is a function that gets the count of members from the database.
func (s *MemberStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Member{}).Count(&count).Error
	return count, err
}
