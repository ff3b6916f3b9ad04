package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/membify/membify-bot/internal/domain/common/errorz"
	"github.com/membify/membify-bot/internal/domain/dto"
	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/membify/membify-bot/internal/domain/service"
	"github.com/membify/membify-bot/pkg/logger/types"
)

type scanRunner interface {
	RunOnce(ctx context.Context) (service.ScanSummary, error)
}

type memberGetter interface {
	Get(ctx context.Context, id string) (*entity.Member, error)
}

type settingsGetter interface {
	GetByCommunityID(ctx context.Context, communityID string) (*entity.BotSettings, error)
}

type memberProcessor interface {
	Process(ctx context.Context, member *entity.Member, settings *entity.BotSettings) entity.RunResult
}

// Server exposes the scan triggers to the operations dashboard.
type Server struct {
	router    chi.Router
	runner    scanRunner
	members   memberGetter
	settings  settingsGetter
	processor memberProcessor
	logger    *types.Logger
}

type errorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Stack     string    `json:"stack,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewServer(
	runner scanRunner,
	members memberGetter,
	settings settingsGetter,
	processor memberProcessor,
	logger *types.Logger,
) *Server {
	s := &Server{
		runner:    runner,
		members:   members,
		settings:  settings,
		processor: processor,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.health)
	r.Post("/jobs/check-subscriptions", s.checkSubscriptions)
	r.Post("/jobs/check-member", s.checkMember)
	s.router = r

	return s
}

// Listen blocks serving the trigger endpoints.
func (s *Server) Listen(addr string) error {
	s.logger.Infof("HTTP trigger listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// checkSubscriptions runs a full scan pass and returns its summary. A failure
// of the run itself, including a contained panic, comes back as a 500 with the
// error and stack so the dashboard can show what broke.
func (s *Server) checkSubscriptions(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Errorf("check-subscriptions panicked: %v", rec)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error:     fmt.Sprintf("%v", rec),
				Stack:     string(debug.Stack()),
				Timestamp: time.Now(),
			})
		}
	}()

	summary, err := s.runner.RunOnce(r.Context())
	if err != nil {
		if errors.Is(err, errorz.ErrScanLocked) {
			writeJSON(w, http.StatusConflict, errorResponse{
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     err.Error(),
			Stack:     string(debug.Stack()),
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// checkMember evaluates one member on demand. The payload may carry the member
// id as "id" or "member_id"; both shapes are accepted.
func (s *Server) checkMember(w http.ResponseWriter, r *http.Request) {
	var record dto.MemberRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     fmt.Sprintf("invalid payload: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	id, err := record.CanonicalID()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	member, err := s.members.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:     fmt.Sprintf("member %s not found: %v", id, err),
			Timestamp: time.Now(),
		})
		return
	}

	settings, err := s.settings.GetByCommunityID(r.Context(), member.CommunityID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     fmt.Sprintf("failed to load bot settings: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	result := s.processor.Process(r.Context(), member, settings)
	writeJSON(w, http.StatusOK, service.ScanSummary{
		Success:   true,
		Message:   fmt.Sprintf("Processed member %s", id),
		Processed: 1,
		Total:     1,
		Results:   []entity.RunResult{result},
		Timestamp: time.Now(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
