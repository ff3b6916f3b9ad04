package service

import (
	"context"
	"time"

	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/membify/membify-bot/pkg/logger/types"
)

type expirationHandler interface {
	Process(ctx context.Context, member *entity.Member, settings *entity.BotSettings) entity.RunResult
}

type reminderPolicy interface {
	Process(ctx context.Context, member *entity.Member, settings *entity.BotSettings, daysUntilExpiration int) entity.RunResult
}

// ProcessorService evaluates a single member against its community settings
// and routes it to expiration handling or the reminder policy.
type ProcessorService struct {
	expiration expirationHandler
	reminders  reminderPolicy
	logger     *types.Logger
	now        func() time.Time
}

func NewProcessorService(expiration expirationHandler, reminders reminderPolicy, logger *types.Logger) *ProcessorService {
	return &ProcessorService{
		expiration: expiration,
		reminders:  reminders,
		logger:     logger,
		now:        time.Now,
	}
}

// Process applies the lifecycle checks in a fixed order. A passed end date
// always routes to expiration, whatever the stored status string says.
func (s *ProcessorService) Process(ctx context.Context, member *entity.Member, settings *entity.BotSettings) entity.RunResult {
	if !member.IsActive {
		return entity.RunResult{
			MemberID:   member.ID,
			TelegramID: member.TelegramID,
			Action:     entity.ActionSkip,
			Details:    "Member is not active",
		}
	}

	untilExpiration, ok := member.TimeUntilExpiration(s.now())
	if !ok {
		return entity.RunResult{
			MemberID:   member.ID,
			TelegramID: member.TelegramID,
			Action:     entity.ActionSkip,
			Details:    "No subscription end date",
		}
	}

	if untilExpiration <= 0 {
		s.logger.Debugf("member %s expired %s ago", member.ID, -untilExpiration)
		return s.expiration.Process(ctx, member, settings)
	}

	if member.SubscriptionStatus == entity.SubscriptionStatusActive {
		daysUntilExpiration := int(untilExpiration / (24 * time.Hour))
		return s.reminders.Process(ctx, member, settings, daysUntilExpiration)
	}

	return entity.RunResult{
		MemberID:   member.ID,
		TelegramID: member.TelegramID,
		Action:     entity.ActionNoReminder,
		Details:    "Subscription not active, not yet expired",
	}
}
