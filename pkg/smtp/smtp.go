package smtp

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/membify/membify-bot/internal/domain/entity"
	"github.com/membify/membify-bot/pkg/logger"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Client is the outbound mail client used for ops digests.
type Client struct {
	dialer *gomail.Dialer
}

// NewClient initializes Client.
func NewClient(dialer *gomail.Dialer) *Client {
	return &Client{dialer: dialer}
}

// SendRunDigest mails a plain-text summary of a finished subscription scan.
func (c *Client) SendRunDigest(to string, runLog *entity.RunLog) {
	msg := gomail.NewMessage()

	domain := viper.GetString("service.smtp.domain")
	messageID := generateMessageID(domain)

	msg.SetHeader("Message-ID", messageID)
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", viper.GetString("service.smtp.email"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Subscription scan digest %s", runLog.StartedAt.Format("2006-01-02 15:04")))
	msg.SetBody("text/plain", formatDigest(runLog))

	if err := c.dialer.DialAndSend(msg); err != nil {
		logger.Log.Error(err)
		return
	}

	logger.Log.Info("Run digest successfully sent")
}

func formatDigest(runLog *entity.RunLog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scan started: %s\n", runLog.StartedAt.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Scan finished: %s\n", runLog.FinishedAt.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Candidates: %d, processed: %d\n\n", runLog.TotalCandidates, runLog.Processed)

	for _, result := range runLog.Results {
		fmt.Fprintf(&b, "- member %s (tg %d): %s", result.MemberID, result.TelegramID, result.Action)
		if result.Details != "" {
			fmt.Fprintf(&b, ": %s", result.Details)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
