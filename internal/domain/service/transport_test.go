package service

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/membify/membify-bot/internal/domain/common/errorz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type senderStub struct {
	sent     []interface{}
	photoErr error
	textErr  error
}

func (s *senderStub) Send(_ tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if _, isPhoto := what.(*tele.Photo); isPhoto && s.photoErr != nil {
		return nil, s.photoErr
	}
	if _, isText := what.(string); isText && s.textErr != nil {
		return nil, s.textErr
	}
	s.sent = append(s.sent, what)
	return &tele.Message{}, nil
}

func TestSendTextReportsFailure(t *testing.T) {
	bot := &senderStub{textErr: errors.New("blocked by user")}
	transport := NewTransportService(bot, testLogger())

	assert.False(t, transport.SendText(100, "hi", nil))

	bot.textErr = nil
	assert.True(t, transport.SendText(100, "hi", nil))
}

func TestSendPhotoByURL(t *testing.T) {
	bot := &senderStub{}
	transport := NewTransportService(bot, testLogger())

	ok := transport.SendPhoto(100, "https://cdn.membify.app/r1.png", "caption", nil)

	require.True(t, ok)
	require.Len(t, bot.sent, 1)
	photo, isPhoto := bot.sent[0].(*tele.Photo)
	require.True(t, isPhoto)
	assert.Equal(t, "caption", photo.Caption)
	assert.Equal(t, "https://cdn.membify.app/r1.png", photo.FileURL)
}

func TestSendPhotoDecodesDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	bot := &senderStub{}
	transport := NewTransportService(bot, testLogger())

	ok := transport.SendPhoto(100, "data:image/png;base64,"+payload, "caption", nil)

	require.True(t, ok)
	require.Len(t, bot.sent, 1)
	_, isPhoto := bot.sent[0].(*tele.Photo)
	assert.True(t, isPhoto, "decoded data url must be uploaded as a photo")
}

func TestSendPhotoFallsBackToTextOnBadBase64(t *testing.T) {
	bot := &senderStub{}
	transport := NewTransportService(bot, testLogger())

	ok := transport.SendPhoto(100, "data:image/png;base64,%%%not-base64%%%", "caption", nil)

	require.True(t, ok, "fallback text send succeeds")
	require.Len(t, bot.sent, 1)
	text, isText := bot.sent[0].(string)
	require.True(t, isText)
	assert.Equal(t, "caption", text)
}

func TestSendPhotoFallsBackToTextOnAPIError(t *testing.T) {
	bot := &senderStub{photoErr: errors.New("PHOTO_INVALID_DIMENSIONS")}
	transport := NewTransportService(bot, testLogger())

	ok := transport.SendPhoto(100, "https://cdn.membify.app/r1.png", "caption", nil)

	require.True(t, ok)
	require.Len(t, bot.sent, 1)
	_, isText := bot.sent[0].(string)
	assert.True(t, isText)
}

func TestSendPhotoFallbackReturnsTextResult(t *testing.T) {
	bot := &senderStub{photoErr: errors.New("boom"), textErr: errors.New("also boom")}
	transport := NewTransportService(bot, testLogger())

	assert.False(t, transport.SendPhoto(100, "https://cdn.membify.app/r1.png", "caption", nil))
}

func TestSendPhotoWithoutCaptionCannotFallBack(t *testing.T) {
	bot := &senderStub{photoErr: errors.New("boom")}
	transport := NewTransportService(bot, testLogger())

	assert.False(t, transport.SendPhoto(100, "https://cdn.membify.app/r1.png", "", nil))
	assert.Empty(t, bot.sent)
}

func TestDecodeDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	decoded, err := decodeDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), decoded)

	_, err = decodeDataURL("data:image/png,plain-not-base64")
	assert.ErrorIs(t, err, errorz.ErrBadDataURL)

	_, err = decodeDataURL("data:image/png;base64,!!!")
	assert.ErrorIs(t, err, errorz.ErrBadDataURL)
}

func TestResolvePhotoFileEmptySource(t *testing.T) {
	_, err := resolvePhotoFile("")
	assert.ErrorIs(t, err, errorz.ErrEmptyPhoto)
}
