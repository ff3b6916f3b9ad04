package service

import (
	"context"
	"errors"
	"testing"

	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type banStub struct {
	calls       int
	lastChat    int64
	lastUser    int64
	lastRevoked bool
	err         error
}

func (s *banStub) Ban(chat *tele.Chat, member *tele.ChatMember, revokeMessages ...bool) error {
	s.calls++
	s.lastChat = chat.ID
	s.lastUser = member.User.ID
	if len(revokeMessages) > 0 {
		s.lastRevoked = revokeMessages[0]
	}
	return s.err
}

type inactiveStub struct {
	deactivated []string
	err         error
}

func (s *inactiveStub) SetInactive(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deactivated = append(s.deactivated, id)
	return nil
}

func TestRemovalBansAndReconciles(t *testing.T) {
	bot := &banStub{}
	members := &inactiveStub{}
	activity := &activityStub{}
	communities := &communityStub{community: &entity.Community{ID: "c1", ChatID: -1001}}
	s := NewRemovalService(bot, communities, members, activity, testLogger())

	ok, detail := s.Remove(context.Background(), expiredMember())

	require.True(t, ok)
	assert.Equal(t, "Member removed from chat", detail)
	assert.Equal(t, int64(-1001), bot.lastChat)
	assert.Equal(t, int64(100), bot.lastUser)
	assert.False(t, bot.lastRevoked, "removal must not revoke past messages")
	assert.Equal(t, []string{"m1"}, members.deactivated)
	require.Len(t, activity.entries, 1)
	assert.Equal(t, entity.ActivityMemberRemoved, activity.entries[0].Type)
}

func TestRemovalFailsWithoutChatID(t *testing.T) {
	bot := &banStub{}
	members := &inactiveStub{}
	communities := &communityStub{community: &entity.Community{ID: "c1"}}
	s := NewRemovalService(bot, communities, members, &activityStub{}, testLogger())

	ok, detail := s.Remove(context.Background(), expiredMember())

	assert.False(t, ok)
	assert.Contains(t, detail, "no chat id")
	assert.Zero(t, bot.calls)
	assert.Empty(t, members.deactivated, "local state untouched on failure")
}

func TestRemovalFailsWhenCommunityLookupFails(t *testing.T) {
	bot := &banStub{}
	communities := &communityStub{getErr: errors.New("not found")}
	s := NewRemovalService(bot, communities, &inactiveStub{}, &activityStub{}, testLogger())

	ok, detail := s.Remove(context.Background(), expiredMember())

	assert.False(t, ok)
	assert.Contains(t, detail, "Failed to resolve community")
	assert.Zero(t, bot.calls)
}

func TestRemovalLeavesLocalStateOnBanError(t *testing.T) {
	bot := &banStub{err: errors.New("not enough rights")}
	members := &inactiveStub{}
	activity := &activityStub{}
	communities := &communityStub{community: &entity.Community{ID: "c1", ChatID: -1001}}
	s := NewRemovalService(bot, communities, members, activity, testLogger())

	ok, detail := s.Remove(context.Background(), expiredMember())

	assert.False(t, ok)
	assert.Contains(t, detail, "Failed to remove member")
	assert.Empty(t, members.deactivated)
	assert.Empty(t, activity.entries)
}

func TestRemovalSucceedsDespiteReconcileFailure(t *testing.T) {
	bot := &banStub{}
	members := &inactiveStub{err: errors.New("db down")}
	communities := &communityStub{community: &entity.Community{ID: "c1", ChatID: -1001}}
	s := NewRemovalService(bot, communities, members, &activityStub{}, testLogger())

	ok, detail := s.Remove(context.Background(), expiredMember())

	assert.True(t, ok, "the external removal already happened")
	assert.Contains(t, detail, "failed to deactivate")
}
