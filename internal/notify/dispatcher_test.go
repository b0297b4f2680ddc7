package notify

import (
	"bytes"
	"context"
	"errors"
	"offboarding-backend/config"
	"offboarding-backend/internal/workflow"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

type failingDispatcher struct{ calls int }

func (d *failingDispatcher) Dispatch(context.Context, workflow.Notification) error {
	d.calls++
	return errors.New("relay down")
}

var note = workflow.Notification{
	To:        "finance@example.com",
	Subject:   "[Offboarding] Finance approval needed: A. Lee",
	Body:      "waiting for your review",
	RequestID: "REQ-1",
	Stage:     workflow.StageFinance,
}

func TestMailDispatcherBuildsMessage(t *testing.T) {
	sender := &fakeSender{}
	d := NewMailDispatcher(sender, "hr-system@example.com")
	if err := d.Dispatch(context.Background(), note); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	m := sender.sent[0]
	if got := m.GetHeader("To"); len(got) != 1 || got[0] != note.To {
		t.Fatalf("unexpected To header: %v", got)
	}
	if got := m.GetHeader("From"); len(got) != 1 || got[0] != "hr-system@example.com" {
		t.Fatalf("unexpected From header: %v", got)
	}
	if got := m.GetHeader("X-Offboarding-Request"); len(got) != 1 || got[0] != "REQ-1" {
		t.Fatalf("unexpected request header: %v", got)
	}
}

func TestMailDispatcherWrapsSendError(t *testing.T) {
	d := NewMailDispatcher(&fakeSender{err: errors.New("dial tcp: refused")}, "x@example.com")
	err := d.Dispatch(context.Background(), note)
	if err == nil || !strings.Contains(err.Error(), "finance@example.com") {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestMailDispatcherHonoursCancelledContext(t *testing.T) {
	sender := &fakeSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMailDispatcher(sender, "x@example.com").Dispatch(ctx, note); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected nothing sent")
	}
}

func TestDispatchAllLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	d := &failingDispatcher{}

	DispatchAll(context.Background(), d, log, []workflow.Notification{note, note})
	if d.calls != 2 {
		t.Fatalf("expected every notification attempted, got %d", d.calls)
	}
	if !strings.Contains(buf.String(), "relay down") || !strings.Contains(buf.String(), `"request_id":"REQ-1"`) {
		t.Fatalf("expected failure in log, got %s", buf.String())
	}
}

func TestNewPicksDispatcherFromConfig(t *testing.T) {
	log := zerolog.Nop()
	if _, ok := New(config.SMTPConfig{}, log).(*LogDispatcher); !ok {
		t.Fatalf("expected log dispatcher without SMTP host")
	}
	smtp := config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "hr@example.com"}
	if _, ok := New(smtp, log).(*MailDispatcher); !ok {
		t.Fatalf("expected mail dispatcher with SMTP host")
	}
}
