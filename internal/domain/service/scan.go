package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/lib/pq"
	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/membify/membify-bot/pkg/logger/types"
)

type scanMemberStorage interface {
	GetDueForCheck(ctx context.Context) ([]entity.Member, error)
}

type scanSettingsStorage interface {
	GetByCommunityID(ctx context.Context, communityID string) (*entity.BotSettings, error)
}

type memberProcessor interface {
	Process(ctx context.Context, member *entity.Member, settings *entity.BotSettings) entity.RunResult
}

type runLogStorage interface {
	Create(ctx context.Context, runLog *entity.RunLog) error
}

type scanActivityStorage interface {
	Create(ctx context.Context, entry *entity.ActivityLogEntry) error
}

type digestSender interface {
	SendRunDigest(to string, runLog *entity.RunLog)
}

// ScanOptions limits a single scan invocation. Zero values disable a limit.
type ScanOptions struct {
	// MemberTimeout caps the external calls of one member's evaluation.
	MemberTimeout time.Duration
	// RunTimeout caps the whole batch.
	RunTimeout time.Duration
	// DigestEmail, when set, receives a summary mail after every run.
	DigestEmail string
}

// ScanSummary is what a scan invocation reports back to its trigger.
type ScanSummary struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	Processed int                `json:"processed"`
	Total     int                `json:"total"`
	Results   []entity.RunResult `json:"logs"`
	Timestamp time.Time          `json:"timestamp"`
}

// ScanService walks all members due for evaluation and aggregates their
// outcomes into one persisted run log. Member failures are isolated; only a
// failure of the batch itself makes the run fail.
type ScanService struct {
	members   scanMemberStorage
	settings  scanSettingsStorage
	processor memberProcessor
	runLogs   runLogStorage
	activity  scanActivityStorage
	digest    digestSender

	opts   ScanOptions
	logger *types.Logger
	now    func() time.Time
}

func NewScanService(
	members scanMemberStorage,
	settings scanSettingsStorage,
	processor memberProcessor,
	runLogs runLogStorage,
	activity scanActivityStorage,
	digest digestSender,
	opts ScanOptions,
	logger *types.Logger,
) *ScanService {
	return &ScanService{
		members:   members,
		settings:  settings,
		processor: processor,
		runLogs:   runLogs,
		activity:  activity,
		digest:    digest,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one scan pass. Panics are contained here: they are logged as a
// scan error system event and surfaced through the summary, never rethrown.
func (s *ScanService) Run(ctx context.Context) (summary ScanSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			s.logger.Errorf("scan panicked: %v\n%s", r, stack)

			entry := &entity.ActivityLogEntry{
				Type:    entity.ActivityScanError,
				Details: fmt.Sprintf("%v\n%s", r, stack),
			}
			if logErr := s.activity.Create(context.Background(), entry); logErr != nil {
				s.logger.Errorf("failed to log scan error: %v", logErr)
			}

			summary = ScanSummary{
				Message:   fmt.Sprintf("scan panicked: %v", r),
				Timestamp: s.now(),
			}
			err = fmt.Errorf("scan panicked: %v", r)
		}
	}()

	if s.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RunTimeout)
		defer cancel()
	}

	startedAt := s.now()

	members, err := s.members.GetDueForCheck(ctx)
	if err != nil {
		return ScanSummary{
			Message:   "failed to fetch members due for check",
			Timestamp: s.now(),
		}, fmt.Errorf("fetch members due for check: %w", err)
	}

	s.logger.Infof("scanning %d members", len(members))

	settingsCache := make(map[string]*entity.BotSettings)
	results := make([]entity.RunResult, 0, len(members))

	for i := range members {
		member := &members[i]

		if ctx.Err() != nil {
			s.logger.Warnf("run timeout reached after %d of %d members", len(results), len(members))
			break
		}

		settings, ok := settingsCache[member.CommunityID]
		if !ok {
			var errSettings error
			settings, errSettings = s.settings.GetByCommunityID(ctx, member.CommunityID)
			if errSettings != nil {
				s.logger.Errorf("failed to load settings for community %s: %v", member.CommunityID, errSettings)
				results = append(results, entity.RunResult{
					MemberID:   member.ID,
					TelegramID: member.TelegramID,
					Action:     entity.ActionError,
					Details:    fmt.Sprintf("Failed to load bot settings: %v", errSettings),
				})
				continue
			}
			settingsCache[member.CommunityID] = settings
		}

		results = append(results, s.processMember(ctx, member, settings))
	}

	runLog := &entity.RunLog{
		StartedAt:       startedAt,
		FinishedAt:      s.now(),
		TotalCandidates: len(members),
		Processed:       len(results),
		Actions:         pq.StringArray(actionSummary(results)),
		Results:         results,
	}
	// The run context may already be done when a timeout cut the batch
	// short; the audit record is written regardless.
	if errLog := s.runLogs.Create(context.Background(), runLog); errLog != nil {
		s.logger.Errorf("failed to persist run log: %v", errLog)
	}

	if s.opts.DigestEmail != "" && s.digest != nil {
		s.digest.SendRunDigest(s.opts.DigestEmail, runLog)
	}

	return ScanSummary{
		Success:   true,
		Message:   fmt.Sprintf("Processed %d of %d members", len(results), len(members)),
		Processed: len(results),
		Total:     len(members),
		Results:   results,
		Timestamp: s.now(),
	}, nil
}

func (s *ScanService) processMember(ctx context.Context, member *entity.Member, settings *entity.BotSettings) entity.RunResult {
	if s.opts.MemberTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.MemberTimeout)
		defer cancel()
	}
	return s.processor.Process(ctx, member, settings)
}

func actionSummary(results []entity.RunResult) []string {
	actions := make([]string, len(results))
	for i, result := range results {
		actions[i] = string(result.Action)
	}
	return actions
}
