package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/membify/membify-bot/internal/domain/common/errorz"
	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/membify/membify-bot/internal/domain/service"
	"github.com/membify/membify-bot/pkg/logger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type runnerStub struct {
	summary service.ScanSummary
	err     error
}

func (s *runnerStub) RunOnce(_ context.Context) (service.ScanSummary, error) {
	return s.summary, s.err
}

type memberStub struct {
	member *entity.Member
	err    error
	lastID string
}

func (s *memberStub) Get(_ context.Context, id string) (*entity.Member, error) {
	s.lastID = id
	return s.member, s.err
}

type settingsStorageStub struct {
	settings *entity.BotSettings
	err      error
}

func (s *settingsStorageStub) GetByCommunityID(_ context.Context, _ string) (*entity.BotSettings, error) {
	return s.settings, s.err
}

type processorStub struct {
	result entity.RunResult
}

func (s *processorStub) Process(_ context.Context, member *entity.Member, _ *entity.BotSettings) entity.RunResult {
	result := s.result
	result.MemberID = member.ID
	return result
}

func newTestServer(runner *runnerStub, members *memberStub) *Server {
	return NewServer(
		runner,
		members,
		&settingsStorageStub{settings: &entity.BotSettings{}},
		&processorStub{result: entity.RunResult{Action: entity.ActionNoReminder}},
		&types.Logger{SugaredLogger: zap.NewNop().Sugar()},
	)
}

func TestCheckSubscriptionsReturnsSummary(t *testing.T) {
	runner := &runnerStub{summary: service.ScanSummary{
		Success:   true,
		Message:   "Processed 2 of 2 members",
		Processed: 2,
		Total:     2,
	}}
	server := newTestServer(runner, &memberStub{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/check-subscriptions", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary service.ScanSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.True(t, summary.Success)
	assert.Equal(t, 2, summary.Processed)
}

func TestCheckSubscriptionsConflictWhenLocked(t *testing.T) {
	server := newTestServer(&runnerStub{err: errorz.ErrScanLocked}, &memberStub{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/check-subscriptions", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckSubscriptionsFailureCarriesError(t *testing.T) {
	server := newTestServer(&runnerStub{err: errors.New("scan exploded")}, &memberStub{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/check-subscriptions", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "scan exploded", resp.Error)
}

func TestCheckMemberAcceptsBothIDShapes(t *testing.T) {
	for _, payload := range []string{`{"id":"m1"}`, `{"member_id":"m1"}`} {
		members := &memberStub{member: &entity.Member{ID: "m1", CommunityID: "c1"}}
		server := newTestServer(&runnerStub{}, members)

		req := httptest.NewRequest(http.MethodPost, "/jobs/check-member", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		server.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, payload)
		assert.Equal(t, "m1", members.lastID, payload)

		var summary service.ScanSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		require.Len(t, summary.Results, 1)
		assert.Equal(t, "m1", summary.Results[0].MemberID)
	}
}

func TestCheckMemberRejectsEmptyPayload(t *testing.T) {
	server := newTestServer(&runnerStub{}, &memberStub{})

	req := httptest.NewRequest(http.MethodPost, "/jobs/check-member", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(&runnerStub{}, &memberStub{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
