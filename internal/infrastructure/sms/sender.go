// Package sms is the outbound text-message adapter. The portal only needs
// a send primitive; provider specifics stay behind the interface.
package sms

import (
	"context"

	sharedconfig "github.com/praxisops/praxis/internal/shared/config"
	"github.com/praxisops/praxis/internal/shared/logger"
)

type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSender records outbound messages without delivering them. Used when no
// provider is configured and in tests.
type LogSender struct {
	log logger.Interface
}

func NewLogSender() *LogSender {
	return &LogSender{log: logger.NewLogger().Named("sms")}
}

func (s *LogSender) Send(ctx context.Context, phone, message string) error {
	s.log.Infow("sms send (log only)", "phone", phone, "length", len(message))
	return nil
}

// NewSender picks the configured provider. Only the log-only transport
// ships today; unknown providers fall back to it with a warning.
func NewSender(cfg sharedconfig.SMSConfig) Sender {
	if cfg.Provider != "" && cfg.Provider != "log" {
		logger.NewLogger().Named("sms").Warnw("unknown sms provider, using log-only transport", "provider", cfg.Provider)
	}
	return NewLogSender()
}
