package sms

import (
	"context"
	"log/slog"
	"strings"

	"inflow/internal/platform/config"
)

// Sender delivers short text notifications such as the welcome message sent
// when an employee is provisioned.
type Sender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

type noopSender struct{}

func (noopSender) Send(ctx context.Context, phoneNumber, message string) error {
	return nil
}

// logSender stands in for a carrier gateway: it records what would have been
// sent. A real integration slots in behind the same interface.
type logSender struct {
	sender string
}

func (s *logSender) Send(ctx context.Context, phoneNumber, message string) error {
	if strings.TrimSpace(phoneNumber) == "" {
		return nil
	}
	slog.Info("sms dispatched", "from", s.sender, "to", phoneNumber, "chars", len(message))
	return nil
}

func New(cfg config.Config) Sender {
	if !cfg.SMSEnabled {
		return noopSender{}
	}
	return &logSender{sender: cfg.SMSSender}
}
