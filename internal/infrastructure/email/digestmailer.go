package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"sitedesk/internal/shared/config"
)

// DigestMailer sends the daily digest email. Delivery is best-effort and
// happens after the digest transaction commits; a failed send never rolls
// back the in-app notifications.
type DigestMailer struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
}

func NewDigestMailer(cfg *config.EmailConfig) *DigestMailer {
	return &DigestMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

// Enabled reports whether digest emails should be sent at all.
func (m *DigestMailer) Enabled() bool {
	return m.cfg != nil && m.cfg.Enabled
}

// SendDigest delivers one digest email with the pre-rendered HTML body.
func (m *DigestMailer) SendDigest(to string, subject string, htmlBody string, plainBody string) error {
	if !m.Enabled() {
		return nil
	}
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromAddress, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	return nil
}
