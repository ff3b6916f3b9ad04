package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/membify/membify-bot/pkg/logger/types"
	"github.com/membify/membify-bot/pkg/qrcode"
	tele "gopkg.in/telebot.v3"
)

// DefaultRenewalLink is where the renewal button points when a community never
// configured its own link.
const DefaultRenewalLink = "https://t.me/MembifyBot/app"

type expirationMemberStorage interface {
	SetStatus(ctx context.Context, id string, status entity.SubscriptionStatus) error
}

type expirationCommunityStorage interface {
	Get(ctx context.Context, id string) (*entity.Community, error)
	SetRenewalLink(ctx context.Context, id string, link string) error
}

type expirationTransport interface {
	SendText(chatID int64, text string, markup *tele.ReplyMarkup) bool
	SendPhotoBytes(chatID int64, photo []byte, caption string, markup *tele.ReplyMarkup) bool
}

type expirationNotificationLogger interface {
	LogSent(ctx context.Context, communityID, memberID string, kind entity.NotificationKind) error
}

type expirationActivityStorage interface {
	Create(ctx context.Context, entry *entity.ActivityLogEntry) error
}

type memberRemover interface {
	Remove(ctx context.Context, member *entity.Member) (bool, string)
}

// ExpirationService runs the terminal transition of a subscription: status
// update, audit entry, expiration notice with a renewal call-to-action, and
// optional removal from the chat. Every step is attempted even when an earlier
// one fails; failures become detail text on the shared result.
type ExpirationService struct {
	members       expirationMemberStorage
	communities   expirationCommunityStorage
	transport     expirationTransport
	notifications expirationNotificationLogger
	activity      expirationActivityStorage
	removal       memberRemover

	defaultRenewalLink string
	logger             *types.Logger
}

func NewExpirationService(
	members expirationMemberStorage,
	communities expirationCommunityStorage,
	transport expirationTransport,
	notifications expirationNotificationLogger,
	activity expirationActivityStorage,
	removal memberRemover,
	defaultRenewalLink string,
	logger *types.Logger,
) *ExpirationService {
	if defaultRenewalLink == "" {
		defaultRenewalLink = DefaultRenewalLink
	}
	return &ExpirationService{
		members:            members,
		communities:        communities,
		transport:          transport,
		notifications:      notifications,
		activity:           activity,
		removal:            removal,
		defaultRenewalLink: defaultRenewalLink,
		logger:             logger,
	}
}

func (s *ExpirationService) Process(ctx context.Context, member *entity.Member, settings *entity.BotSettings) entity.RunResult {
	var details []string

	if err := s.members.SetStatus(ctx, member.ID, entity.SubscriptionStatusExpired); err != nil {
		s.logger.Errorf("failed to mark member %s expired: %v", member.ID, err)
		details = append(details, fmt.Sprintf("failed to update status: %v", err))
	} else {
		details = append(details, "status set to expired")
	}

	entry := &entity.ActivityLogEntry{
		CommunityID: member.CommunityID,
		TelegramID:  member.TelegramID,
		Type:        entity.ActivitySubscriptionExpired,
		Details:     "Subscription end date passed",
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		s.logger.Errorf("failed to log expiration for member %s: %v", member.ID, err)
		details = append(details, fmt.Sprintf("failed to log activity: %v", err))
	}

	if settings.ExpiredSubscriptionMessage != "" {
		details = append(details, s.sendNotice(ctx, member, settings))
	}

	if settings.AutoRemoveExpired {
		removed, removalDetail := s.removal.Remove(ctx, member)
		if !removed {
			s.logger.Warnf("failed to remove expired member %s: %s", member.ID, removalDetail)
		}
		details = append(details, removalDetail)
	}

	return entity.RunResult{
		MemberID:   member.ID,
		TelegramID: member.TelegramID,
		Action:     entity.ActionExpiration,
		Details:    strings.Join(details, "; "),
	}
}

// sendNotice delivers the expiration message with a renewal button and records
// the notification on success.
func (s *ExpirationService) sendNotice(ctx context.Context, member *entity.Member, settings *entity.BotSettings) string {
	link := s.resolveRenewalLink(ctx, member.CommunityID)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.URL("Renew subscription", link)))

	message := FormatMessage(settings.ExpiredSubscriptionMessage, settings.BotSignature)

	var sent bool
	if settings.AttachRenewalQR {
		png, err := qrcode.Generate(link, 0)
		if err != nil {
			s.logger.Warnf("failed to render renewal qr for member %s: %v", member.ID, err)
			sent = s.transport.SendText(member.TelegramID, message, markup)
		} else {
			sent = s.transport.SendPhotoBytes(member.TelegramID, png, message, markup)
		}
	} else {
		sent = s.transport.SendText(member.TelegramID, message, markup)
	}

	if !sent {
		return "failed to send expiration notice"
	}

	if err := s.notifications.LogSent(ctx, member.CommunityID, member.ID, entity.NotificationKindExpiration); err != nil {
		s.logger.Errorf("failed to record expiration notice for member %s: %v", member.ID, err)
		return "expiration notice sent, record failed"
	}
	return "expiration notice sent"
}

// resolveRenewalLink returns the community renewal link, falling back to the
// default and persisting it so the admin panel shows what was actually used.
func (s *ExpirationService) resolveRenewalLink(ctx context.Context, communityID string) string {
	community, err := s.communities.Get(ctx, communityID)
	if err != nil {
		s.logger.Warnf("failed to load community %s, using default renewal link: %v", communityID, err)
		return s.defaultRenewalLink
	}

	if community.RenewalLink != "" {
		return community.RenewalLink
	}

	if err = s.communities.SetRenewalLink(ctx, communityID, s.defaultRenewalLink); err != nil {
		s.logger.Warnf("failed to persist default renewal link for community %s: %v", communityID, err)
	}
	return s.defaultRenewalLink
}
