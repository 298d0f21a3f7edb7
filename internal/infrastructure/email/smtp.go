// Package email sends notification mail over SMTP with open/click tracking.
package email

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/praxisops/praxis/internal/domain/tracking"
	sharedconfig "github.com/praxisops/praxis/internal/shared/config"
	"github.com/praxisops/praxis/internal/shared/logger"
)

// Sender delivers one notification email. The returned tracking ID is the
// UUID embedded in the pixel and click URLs, empty when tracking is off.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody, plainBody string) (string, error)
}

type SMTPSender struct {
	cfg       sharedconfig.EmailConfig
	dialer    *gomail.Dialer
	trackings tracking.Repository
	log       logger.Interface
}

func NewSMTPSender(cfg sharedconfig.EmailConfig, trackings tracking.Repository) *SMTPSender {
	return &SMTPSender{
		cfg:       cfg,
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		trackings: trackings,
		log:       logger.NewLogger().Named("email"),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody, plainBody string) (string, error) {
	trackingID := s.registerTracking(ctx, to, subject)
	if trackingID != "" {
		htmlBody += fmt.Sprintf(
			`<img src="%s/api/email-tracking/pixel/%s.gif" width="1" height="1" alt="" style="display:none"/>`,
			s.cfg.BaseURL, trackingID,
		)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return trackingID, nil
}

// TrackedLink wraps a destination URL in the click-through redirect so hits
// land in the tracking log before the browser moves on.
func (s *SMTPSender) TrackedLink(trackingID, destination string) string {
	if trackingID == "" {
		return destination
	}
	return fmt.Sprintf("%s/api/email-tracking/click?tid=%s&url=%s", s.cfg.BaseURL, trackingID, url.QueryEscape(destination))
}

// registerTracking is best effort: mail still goes out when the tracking
// row cannot be written.
func (s *SMTPSender) registerTracking(ctx context.Context, to, subject string) string {
	t, err := tracking.NewTracking(uuid.NewString(), to, subject, time.Now().UTC())
	if err != nil {
		return ""
	}
	if err := s.trackings.Save(ctx, t); err != nil {
		s.log.Warnw("failed to register email tracking", "recipient", to, "error", err)
		return ""
	}
	return t.ID()
}
