package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	statusSent    = "sent"
	statusFailed  = "failed"
	statusNoRoute = "no_sender"
)

type Dispatcher struct {
	senders map[Channel]Sender
	log     *zap.Logger
	sent    *prometheus.CounterVec
	newID   func() string
}

func NewDispatcher(log *zap.Logger, reg prometheus.Registerer, senders ...Sender) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dispatcher{
		senders: make(map[Channel]Sender, len(senders)),
		log:     log,
		sent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "restock",
				Subsystem: "notifications",
				Name:      "sent_total",
				Help:      "Notifications handed to a channel sender",
			},
			[]string{"channel", "status"},
		),
		newID: uuid.NewString,
	}
	for _, s := range senders {
		d.senders[s.Channel()] = s
	}
	if reg != nil {
		reg.MustRegister(d.sent)
	}
	return d
}

// Dispatch emits one notification per requested channel that has a
// destination. Sender failures are logged and counted, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, to Recipient, productName string, pref Preference) {
	for _, c := range Channels {
		addr := to.Address(c)
		if !pref.Wants(c) || addr == "" {
			continue
		}

		sender, ok := d.senders[c]
		if !ok {
			d.log.Warn("no sender for channel", zap.String("channel", string(c)))
			d.sent.WithLabelValues(string(c), statusNoRoute).Inc()
			continue
		}

		subject, body := render(c, productName)
		n := Notification{
			ID:      d.newID(),
			Channel: c,
			To:      addr,
			Subject: subject,
			Body:    body,
		}

		if err := sender.Send(ctx, n); err != nil {
			d.log.Error("send notification failed",
				zap.String("channel", string(c)),
				zap.String("to", addr),
				zap.Error(err),
			)
			d.sent.WithLabelValues(string(c), statusFailed).Inc()
			continue
		}
		d.sent.WithLabelValues(string(c), statusSent).Inc()
	}
}
