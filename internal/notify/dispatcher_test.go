package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type captureSender struct {
	channel Channel
	err     error
	got     []Notification
}

func (s *captureSender) Channel() Channel { return s.channel }

func (s *captureSender) Send(_ context.Context, n Notification) error {
	s.got = append(s.got, n)
	return s.err
}

func newTestDispatcher(t *testing.T, senders ...Sender) (*Dispatcher, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	d := NewDispatcher(zap.NewNop(), reg, senders...)
	d.newID = func() string { return "n-1" }
	return d, reg
}

func TestDispatch_ChannelSelection(t *testing.T) {
	to := Recipient{Email: "a@x.com", Phone: "555"}

	cases := []struct {
		pref      Preference
		to        Recipient
		wantEmail int
		wantPhone int
	}{
		{PreferEmail, to, 1, 0},
		{PreferPhone, to, 0, 1},
		{PreferBoth, to, 1, 1},
		{PreferBoth, Recipient{Email: "a@x.com"}, 1, 0},
		{PreferPhone, Recipient{Email: "a@x.com"}, 0, 0},
		{Preference("fax"), to, 0, 0},
	}

	for _, tc := range cases {
		t.Run(string(tc.pref), func(t *testing.T) {
			email := &captureSender{channel: ChannelEmail}
			phone := &captureSender{channel: ChannelPhone}
			d, _ := newTestDispatcher(t, email, phone)

			d.Dispatch(context.Background(), tc.to, "Sneaker", tc.pref)

			assert.Len(t, email.got, tc.wantEmail)
			assert.Len(t, phone.got, tc.wantPhone)
		})
	}
}

func TestDispatch_RendersMessages(t *testing.T) {
	email := &captureSender{channel: ChannelEmail}
	phone := &captureSender{channel: ChannelPhone}
	d, _ := newTestDispatcher(t, email, phone)

	d.Dispatch(context.Background(), Recipient{Email: "a@x.com", Phone: "555"}, "Sneaker", PreferBoth)

	require.Len(t, email.got, 1)
	assert.Equal(t, Notification{
		ID:      "n-1",
		Channel: ChannelEmail,
		To:      "a@x.com",
		Subject: "Your Reserved Product is Now Available!",
		Body:    "Great news! The product 'Sneaker' you were waiting for is now available.",
	}, email.got[0])

	require.Len(t, phone.got, 1)
	assert.Equal(t, Notification{
		ID:      "n-1",
		Channel: ChannelPhone,
		To:      "555",
		Body:    "Your reserved product 'Sneaker' is now available!",
	}, phone.got[0])
}

func TestDispatch_FailuresAreCountedNotReturned(t *testing.T) {
	email := &captureSender{channel: ChannelEmail, err: errors.New("smtp down")}
	phone := &captureSender{channel: ChannelPhone}
	d, _ := newTestDispatcher(t, email, phone)

	d.Dispatch(context.Background(), Recipient{Email: "a@x.com", Phone: "555"}, "Sneaker", PreferBoth)

	assert.Len(t, phone.got, 1, "a failing channel must not block the others")
	assert.Equal(t, 1.0, testutil.ToFloat64(d.sent.WithLabelValues("email", statusFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.sent.WithLabelValues("phone", statusSent)))
}

func TestDispatch_MissingSender(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewDispatcher(zap.New(core), nil)

	d.Dispatch(context.Background(), Recipient{Email: "a@x.com"}, "Sneaker", PreferEmail)

	assert.Equal(t, 1, logs.FilterMessage("no sender for channel").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(d.sent.WithLabelValues("email", statusNoRoute)))
}

func TestLogSender_WritesStructuredRecord(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewDispatcher(zap.NewNop(), nil,
		NewLogSender(ChannelEmail, zap.New(core)),
		NewLogSender(ChannelPhone, zap.New(core)),
	)
	d.newID = func() string { return "n-42" }

	d.Dispatch(context.Background(), Recipient{Email: "a@x.com", Phone: "555"}, "Art Print", PreferBoth)

	entries := logs.FilterMessage("simulated notification").All()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "notify.email", first.LoggerName)
	assert.Equal(t, map[string]any{
		"notification_id": "n-42",
		"channel":         "email",
		"to":              "a@x.com",
		"subject":         "Your Reserved Product is Now Available!",
		"body":            "Great news! The product 'Art Print' you were waiting for is now available.",
	}, first.ContextMap())

	second := entries[1]
	assert.Equal(t, "notify.phone", second.LoggerName)
	assert.NotContains(t, second.ContextMap(), "subject")
	assert.Equal(t, "555", second.ContextMap()["to"])
}

func TestParsePreference(t *testing.T) {
	p, ok := ParsePreference(" Both ")
	assert.True(t, ok)
	assert.Equal(t, PreferBoth, p)

	_, ok = ParsePreference("")
	assert.False(t, ok)
	_, ok = ParsePreference("sms")
	assert.False(t, ok)
}
