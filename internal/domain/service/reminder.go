package service

import (
	"context"
	"fmt"

	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/membify/membify-bot/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

// ReminderKind is the renewal notice variant chosen for a member.
type ReminderKind string

const (
	ReminderFirst  ReminderKind = "first"
	ReminderSecond ReminderKind = "second"
	ReminderLegacy ReminderKind = "legacy"
	ReminderNone   ReminderKind = "none"
)

type reminderTransport interface {
	SendText(chatID int64, text string, markup *tele.ReplyMarkup) bool
	SendPhoto(chatID int64, photoSource, caption string, markup *tele.ReplyMarkup) bool
}

type reminderNotificationLogger interface {
	LogSent(ctx context.Context, communityID, memberID string, kind entity.NotificationKind) error
	SentToday(ctx context.Context, memberID string, kind entity.NotificationKind) (bool, error)
}

type reminderActivityStorage interface {
	Create(ctx context.Context, entry *entity.ActivityLogEntry) error
}

// ReminderService decides which renewal reminder, if any, applies to a member
// on a given day and delivers it.
type ReminderService struct {
	transport     reminderTransport
	notifications reminderNotificationLogger
	activity      reminderActivityStorage

	// dedupeSameDay suppresses a reminder when one already went out today,
	// so re-running a scan does not double-send.
	dedupeSameDay bool

	logger *types.Logger
}

func NewReminderService(
	transport reminderTransport,
	notifications reminderNotificationLogger,
	activity reminderActivityStorage,
	dedupeSameDay bool,
	logger *types.Logger,
) *ReminderService {
	return &ReminderService{
		transport:     transport,
		notifications: notifications,
		activity:      activity,
		dedupeSameDay: dedupeSameDay,
		logger:        logger,
	}
}

// Decide picks at most one reminder kind by exact day-threshold match.
// First beats second beats legacy when thresholds coincide.
func Decide(settings *entity.BotSettings, daysUntilExpiration int) ReminderKind {
	// A zero threshold means the reminder is not configured; without this an
	// unset threshold would fire on the expiration day itself.
	switch {
	case settings.FirstReminderDays > 0 && daysUntilExpiration == settings.FirstReminderDays:
		return ReminderFirst
	case settings.SecondReminderDays > 0 && daysUntilExpiration == settings.SecondReminderDays:
		return ReminderSecond
	case settings.SubscriptionReminderDays > 0 && daysUntilExpiration == settings.SubscriptionReminderDays:
		return ReminderLegacy
	default:
		return ReminderNone
	}
}

// FormatMessage appends the community bot signature to a template, if any.
func FormatMessage(template, signature string) string {
	if signature == "" {
		return template
	}
	return template + "\n\n" + signature
}

// Process sends the applicable reminder to the member. The returned result
// always carries an action; delivery failures are detail text, never errors.
func (s *ReminderService) Process(ctx context.Context, member *entity.Member, settings *entity.BotSettings, daysUntilExpiration int) entity.RunResult {
	kind := Decide(settings, daysUntilExpiration)
	if kind == ReminderNone {
		return entity.RunResult{
			MemberID:   member.ID,
			TelegramID: member.TelegramID,
			Action:     entity.ActionNoReminder,
			Details:    fmt.Sprintf("No reminder threshold matched (%d days left)", daysUntilExpiration),
		}
	}

	if s.dedupeSameDay {
		sent, err := s.notifications.SentToday(ctx, member.ID, entity.NotificationKindReminder)
		if err != nil {
			s.logger.Warnf("failed to check notification history for member %s: %v", member.ID, err)
		} else if sent {
			return entity.RunResult{
				MemberID:   member.ID,
				TelegramID: member.TelegramID,
				Action:     entity.ActionNoReminder,
				Details:    "Reminder already sent today",
			}
		}
	}

	var (
		template string
		image    string
		action   entity.RunAction
	)
	switch kind {
	case ReminderFirst:
		template = settings.FirstReminderMessage
		image = settings.FirstReminderImage
		action = entity.ActionFirstReminder
	case ReminderSecond:
		template = settings.SecondReminderMessage
		image = settings.SecondReminderImage
		action = entity.ActionSecondReminder
	case ReminderLegacy:
		template = settings.SubscriptionReminderMessage
		action = entity.ActionLegacyReminder
	}

	message := FormatMessage(template, settings.BotSignature)

	var sent bool
	if image != "" {
		sent = s.transport.SendPhoto(member.TelegramID, image, message, nil)
	} else {
		sent = s.transport.SendText(member.TelegramID, message, nil)
	}

	if !sent {
		return entity.RunResult{
			MemberID:   member.ID,
			TelegramID: member.TelegramID,
			Action:     action,
			Details:    fmt.Sprintf("Failed to send %s reminder", kind),
		}
	}

	// First, second and legacy reminders share one stored notification kind;
	// historical records predate the split.
	if err := s.notifications.LogSent(ctx, member.CommunityID, member.ID, entity.NotificationKindReminder); err != nil {
		s.logger.Errorf("failed to record %s reminder for member %s: %v", kind, member.ID, err)
	}

	switch kind {
	case ReminderFirst, ReminderSecond:
		activityType := entity.ActivityFirstReminderSent
		if kind == ReminderSecond {
			activityType = entity.ActivitySecondReminderSent
		}
		entry := &entity.ActivityLogEntry{
			CommunityID: member.CommunityID,
			TelegramID:  member.TelegramID,
			Type:        activityType,
			Details:     fmt.Sprintf("Sent %s reminder, %d days before expiration", kind, daysUntilExpiration),
		}
		if err := s.activity.Create(ctx, entry); err != nil {
			s.logger.Errorf("failed to log %s reminder activity for member %s: %v", kind, member.ID, err)
		}
	}

	return entity.RunResult{
		MemberID:   member.ID,
		TelegramID: member.TelegramID,
		Action:     action,
		Details:    fmt.Sprintf("Sent %s reminder (%d days left)", kind, daysUntilExpiration),
	}
}
