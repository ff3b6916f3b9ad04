package service

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/membify/membify-bot/internal/domain/common/errorz"
	"github.com/membify/membify-bot/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

type telegramSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TransportService delivers notifications to telegram chats. All sends report
// success as a boolean; callers decide what a failed delivery means.
type TransportService struct {
	bot    telegramSender
	logger *types.Logger
}

func NewTransportService(bot telegramSender, logger *types.Logger) *TransportService {
	return &TransportService{
		bot:    bot,
		logger: logger,
	}
}

// SendText sends an HTML-formatted text message to the chat.
func (s *TransportService) SendText(chatID int64, text string, markup *tele.ReplyMarkup) bool {
	opts := []interface{}{tele.ModeHTML}
	if markup != nil {
		opts = append(opts, markup)
	}

	_, err := s.bot.Send(tele.ChatID(chatID), text, opts...)
	if err != nil {
		s.logger.Errorf("failed to send message to chat %d: %v", chatID, err)
		return false
	}
	return true
}

// SendPhoto sends a photo with a caption. The source may be a remote URL or a
// base64 data url, which is decoded and uploaded as a binary blob. Any photo
// failure falls back to a plain text send of the caption.
func (s *TransportService) SendPhoto(chatID int64, photoSource, caption string, markup *tele.ReplyMarkup) bool {
	file, err := resolvePhotoFile(photoSource)
	if err != nil {
		s.logger.Warnf("failed to resolve photo source for chat %d: %v", chatID, err)
		return s.fallbackToText(chatID, caption, markup)
	}

	return s.sendPhotoFile(chatID, file, caption, markup)
}

// SendPhotoBytes sends an in-memory image, falling back to text like SendPhoto.
func (s *TransportService) SendPhotoBytes(chatID int64, photo []byte, caption string, markup *tele.ReplyMarkup) bool {
	if len(photo) == 0 {
		return s.fallbackToText(chatID, caption, markup)
	}
	return s.sendPhotoFile(chatID, tele.FromReader(bytes.NewReader(photo)), caption, markup)
}

func (s *TransportService) sendPhotoFile(chatID int64, file tele.File, caption string, markup *tele.ReplyMarkup) bool {
	photo := &tele.Photo{
		File:    file,
		Caption: caption,
	}

	opts := []interface{}{tele.ModeHTML}
	if markup != nil {
		opts = append(opts, markup)
	}

	_, err := s.bot.Send(tele.ChatID(chatID), photo, opts...)
	if err != nil {
		s.logger.Warnf("failed to send photo to chat %d: %v", chatID, err)
		return s.fallbackToText(chatID, caption, markup)
	}
	return true
}

func (s *TransportService) fallbackToText(chatID int64, caption string, markup *tele.ReplyMarkup) bool {
	if caption == "" {
		return false
	}
	return s.SendText(chatID, caption, markup)
}

// resolvePhotoFile turns a photo source into a telebot file: remote URLs are
// sent by reference, data urls are decoded into an upload.
func resolvePhotoFile(source string) (tele.File, error) {
	if source == "" {
		return tele.File{}, errorz.ErrEmptyPhoto
	}

	if !strings.HasPrefix(source, "data:") {
		return tele.FromURL(source), nil
	}

	payload, err := decodeDataURL(source)
	if err != nil {
		return tele.File{}, err
	}
	return tele.FromReader(bytes.NewReader(payload)), nil
}

func decodeDataURL(source string) ([]byte, error) {
	idx := strings.Index(source, ";base64,")
	if idx < 0 {
		return nil, errorz.ErrBadDataURL
	}

	payload, err := base64.StdEncoding.DecodeString(source[idx+len(";base64,"):])
	if err != nil {
		return nil, errorz.ErrBadDataURL
	}
	return payload, nil
}
