package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/membify/membify-bot/internal/adapters/config"
	httpController "github.com/membify/membify-bot/internal/adapters/controller/http"
	"github.com/membify/membify-bot/internal/adapters/controller/telegram/scheduler"
	"github.com/membify/membify-bot/internal/adapters/database/postgres"
	"github.com/membify/membify-bot/internal/adapters/database/redis"
	"github.com/membify/membify-bot/internal/domain/service"
	"github.com/membify/membify-bot/pkg/logger"
	"github.com/membify/membify-bot/pkg/logger/types"
	"github.com/membify/membify-bot/pkg/smtp"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/gomail.v2"
	tele "gopkg.in/telebot.v3"
	"gorm.io/gorm"
)

type Bot struct {
	*tele.Bot
	DB         *gorm.DB
	Redis      *redis.Client
	SMTPDialer *gomail.Dialer
	Logger     *types.Logger
}

func New(config *config.Config) (*Bot, error) {
	botLogger, err := logger.Named("bot")
	if err != nil {
		return nil, err
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  viper.GetString("bot.token"),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, _ tele.Context) {
			botLogger.Errorf("telegram error: %v", err)
		},
	})
	if err != nil {
		return nil, err
	}

	return &Bot{
		Bot:        b,
		DB:         config.Database,
		Redis:      config.Redis,
		SMTPDialer: config.SMTPDialer,
		Logger:     botLogger,
	}, nil
}

// Start wires the scan services together and blocks serving the HTTP trigger
// while the scheduler runs in the background.
func (b *Bot) Start() error {
	scanLogger, err := logger.Named("scan")
	if err != nil {
		return err
	}
	httpLogger, err := logger.Named("http")
	if err != nil {
		return err
	}

	memberStorage := postgres.NewMemberStorage(b.DB)
	settingsStorage := postgres.NewBotSettingsStorage(b.DB)
	communityStorage := postgres.NewCommunityStorage(b.DB)
	notificationStorage := postgres.NewNotificationStorage(b.DB)
	activityStorage := postgres.NewActivityLogStorage(b.DB)
	runLogStorage := postgres.NewRunLogStorage(b.DB)

	transport := service.NewTransportService(b.Bot, scanLogger)
	notifications := service.NewNotificationService(notificationStorage)
	removal := service.NewRemovalService(b.Bot, communityStorage, memberStorage, activityStorage, scanLogger)
	reminders := service.NewReminderService(
		transport,
		notifications,
		activityStorage,
		viper.GetBool("scan.dedupe-same-day"),
		scanLogger,
	)
	expiration := service.NewExpirationService(
		memberStorage,
		communityStorage,
		transport,
		notifications,
		activityStorage,
		removal,
		viper.GetString("scan.default-renewal-link"),
		scanLogger,
	)
	processor := service.NewProcessorService(expiration, reminders, scanLogger)

	scanOpts := service.ScanOptions{
		MemberTimeout: viper.GetDuration("scan.member-timeout"),
		RunTimeout:    viper.GetDuration("scan.run-timeout"),
		DigestEmail:   viper.GetString("scan.digest-email"),
	}

	var scan *service.ScanService
	if b.SMTPDialer != nil {
		scan = service.NewScanService(memberStorage, settingsStorage, processor,
			runLogStorage, activityStorage, smtp.NewClient(b.SMTPDialer), scanOpts, scanLogger)
	} else {
		scan = service.NewScanService(memberStorage, settingsStorage, processor,
			runLogStorage, activityStorage, nil, scanOpts, scanLogger)
	}

	if viper.GetBool("settings.logging.log-to-channel") {
		b.setupChannelLogging(transport)
	}

	scanScheduler := scheduler.New(scan, b.Redis.Locks, viper.GetDuration("scan.interval"), scanLogger)
	scanScheduler.Start(context.Background())

	server := httpController.NewServer(scanScheduler, memberStorage, settingsStorage, processor, httpLogger)
	return server.Listen(fmt.Sprintf(":%d", viper.GetInt("http.port")))
}

// setupChannelLogging mirrors log entries at or above the configured level
// into an ops telegram channel.
func (b *Bot) setupChannelLogging(transport *service.TransportService) {
	channelID := viper.GetInt64("settings.logging.channel-id")
	minLevel := zapcore.Level(viper.GetInt("settings.logging.channel-log-level"))

	logger.SetLogHook(func(log types.Log) {
		// The transport logs its own send failures; forwarding those would
		// loop the hook forever.
		if log.Level < minLevel || strings.Contains(log.Message, "failed to send message") {
			return
		}
		transport.SendText(channelID, fmt.Sprintf("[%s] %s | %s", log.Level, log.LoggerName, log.Message), nil)
	})
}
