package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes messages to the logger instead of delivering them.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a development mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message envelope.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("email",
		zap.String("to", msg.To.String()),
		zap.String("subject", msg.Subject),
		zap.Int("text_bytes", len(msg.Text)),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}
