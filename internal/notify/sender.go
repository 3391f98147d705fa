package notify

import (
	"context"

	"go.uber.org/zap"
)

type Sender interface {
	Channel() Channel
	Send(ctx context.Context, n Notification) error
}

// LogSender stands in for a real transport: it writes the notification as a
// structured log record and never fails.
type LogSender struct {
	channel Channel
	log     *zap.Logger
}

func NewLogSender(c Channel, log *zap.Logger) *LogSender {
	return &LogSender{channel: c, log: log.Named("notify." + string(c))}
}

func (s *LogSender) Channel() Channel { return s.channel }

func (s *LogSender) Send(_ context.Context, n Notification) error {
	fields := []zap.Field{
		zap.String("notification_id", n.ID),
		zap.String("channel", string(n.Channel)),
		zap.String("to", n.To),
	}
	if n.Subject != "" {
		fields = append(fields, zap.String("subject", n.Subject))
	}
	fields = append(fields, zap.String("body", n.Body))

	s.log.Info("simulated notification", fields...)
	return nil
}
