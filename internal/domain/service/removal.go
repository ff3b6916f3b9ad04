package service

import (
	"context"
	"fmt"

	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/membify/membify-bot/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

type chatBanner interface {
	Ban(chat *tele.Chat, member *tele.ChatMember, revokeMessages ...bool) error
}

type removalCommunityStorage interface {
	Get(ctx context.Context, id string) (*entity.Community, error)
}

type removalMemberStorage interface {
	SetInactive(ctx context.Context, id string) error
}

type removalActivityStorage interface {
	Create(ctx context.Context, entry *entity.ActivityLogEntry) error
}

// RemovalService kicks expired members out of the community chat and
// reconciles the local record. Removal never revokes past messages.
type RemovalService struct {
	bot         chatBanner
	communities removalCommunityStorage
	members     removalMemberStorage
	activity    removalActivityStorage
	logger      *types.Logger
}

func NewRemovalService(
	bot chatBanner,
	communities removalCommunityStorage,
	members removalMemberStorage,
	activity removalActivityStorage,
	logger *types.Logger,
) *RemovalService {
	return &RemovalService{
		bot:         bot,
		communities: communities,
		members:     members,
		activity:    activity,
		logger:      logger,
	}
}

// Remove bans the member from the community chat. On any failure local state
// is left untouched and the returned detail explains what went wrong.
func (s *RemovalService) Remove(ctx context.Context, member *entity.Member) (bool, string) {
	community, err := s.communities.Get(ctx, member.CommunityID)
	if err != nil {
		return false, fmt.Sprintf("Failed to resolve community %s: %v", member.CommunityID, err)
	}
	if community.ChatID == 0 {
		return false, fmt.Sprintf("Community %s has no chat id", member.CommunityID)
	}

	err = s.bot.Ban(
		&tele.Chat{ID: community.ChatID},
		&tele.ChatMember{User: &tele.User{ID: member.TelegramID}},
		false,
	)
	if err != nil {
		return false, fmt.Sprintf("Failed to remove member from chat %d: %v", community.ChatID, err)
	}

	detail := "Member removed from chat"

	if err = s.members.SetInactive(ctx, member.ID); err != nil {
		s.logger.Errorf("failed to deactivate removed member %s: %v", member.ID, err)
		detail += fmt.Sprintf("; failed to deactivate member record: %v", err)
	}

	entry := &entity.ActivityLogEntry{
		CommunityID: member.CommunityID,
		TelegramID:  member.TelegramID,
		Type:        entity.ActivityMemberRemoved,
		Details:     fmt.Sprintf("Removed from chat %d after subscription expired", community.ChatID),
	}
	if err = s.activity.Create(ctx, entry); err != nil {
		s.logger.Errorf("failed to log member removal for %s: %v", member.ID, err)
	}

	return true, detail
}
