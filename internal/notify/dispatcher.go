package notify

import (
	"context"
	"fmt"
	"offboarding-backend/config"
	"offboarding-backend/internal/workflow"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Dispatcher delivers workflow notifications. Implementations may fail; the
// caller only logs the failure.
type Dispatcher interface {
	Dispatch(ctx context.Context, n workflow.Notification) error
}

// New picks the SMTP dispatcher when a relay is configured and the log
// dispatcher otherwise.
func New(cfg config.SMTPConfig, log zerolog.Logger) Dispatcher {
	if !cfg.Enabled() {
		return NewLogDispatcher(log)
	}
	return NewMailDispatcher(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From)
}

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type MailDispatcher struct {
	sender MailSender
	from   string
}

func NewMailDispatcher(sender MailSender, from string) *MailDispatcher {
	return &MailDispatcher{sender: sender, from: from}
}

func (d *MailDispatcher) Dispatch(ctx context.Context, n workflow.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetHeader("X-Offboarding-Request", n.RequestID)
	m.SetBody("text/plain", n.Body)

	if err := d.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("notify: send to %s: %w", n.To, err)
	}
	return nil
}

// LogDispatcher writes notifications to the log instead of sending them.
type LogDispatcher struct {
	log zerolog.Logger
}

func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(_ context.Context, n workflow.Notification) error {
	d.log.Info().
		Str("to", n.To).
		Str("subject", n.Subject).
		Str("request_id", n.RequestID).
		Str("stage", n.Stage).
		Msg("notification (no SMTP configured)")
	return nil
}

// DispatchAll sends every notification and logs failures. It never returns an
// error so a broken relay cannot undo a transition.
func DispatchAll(ctx context.Context, d Dispatcher, log zerolog.Logger, notes []workflow.Notification) {
	for _, n := range notes {
		if err := d.Dispatch(ctx, n); err != nil {
			log.Warn().Err(err).
				Str("request_id", n.RequestID).
				Str("stage", n.Stage).
				Msg("notification: dispatch failed (non-fatal)")
			continue
		}
		log.Debug().
			Str("request_id", n.RequestID).
			Str("to", n.To).
			Msg("notification: dispatched")
	}
}
