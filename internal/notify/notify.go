// Package notify emails candidates when they are elected.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/warwickbarbell/blackboards/internal/config"
	"github.com/warwickbarbell/blackboards/internal/logger"
	"github.com/warwickbarbell/blackboards/internal/models"
)

const subject = "Warwick Barbell Election Result"

// Message is a single email before it is encoded
type Message struct {
	FromName    string
	FromAddress string
	ToName      string
	ToAddress   string
	Subject     string
	Body        string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer implements services.Notifier over a Sender
type Mailer struct {
	log         logger.Logger
	sender      Sender
	fromName    string
	fromAddress string
}

// New creates a mailer. A nil sender disables delivery: messages are only logged.
func New(log logger.Logger, sender Sender, fromName, fromAddress string) *Mailer {
	return &Mailer{log: log, sender: sender, fromName: fromName, fromAddress: fromAddress}
}

// FromConfig builds a mailer that sends through SMTP when SEND_EMAILS is set
func FromConfig(log logger.Logger, cfg *config.Config) *Mailer {
	var sender Sender
	if cfg.SendEmails {
		sender = &SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.FromAddress,
			Password: cfg.AppPassword,
		}
	}
	return New(log, sender, cfg.FromName, cfg.FromAddress)
}

// WarwickAddress formats the university address of a member
func WarwickAddress(warwickID int) string {
	return fmt.Sprintf("u%d@live.warwick.ac.uk", warwickID)
}

// NotifyElected sends one email per candidate. Every candidate is attempted;
// the returned error joins the individual failures.
func (m *Mailer) NotifyElected(ctx context.Context, candidates []models.Candidate) error {
	if m.sender == nil {
		m.log.Debug("Emails disabled, skipping election notifications", "count", len(candidates))
		return nil
	}

	var errs []error
	for _, c := range candidates {
		msg := Message{
			FromName:    m.fromName,
			FromAddress: m.fromAddress,
			ToName:      c.Name,
			ToAddress:   WarwickAddress(c.WarwickID),
			Subject:     subject,
			Body:        fmt.Sprintf("Hey %s,\n\nCongratulations, you have been elected to the Warwick Barbell exec!", c.Name),
		}
		if err := m.sender.Send(ctx, msg); err != nil {
			m.log.Error("Failed to send election email", "warwick_id", c.WarwickID, "error", err)
			errs = append(errs, fmt.Errorf("email %d: %w", c.WarwickID, err))
			continue
		}
		m.log.Info("Sent election email", "warwick_id", c.WarwickID)
	}
	return errors.Join(errs...)
}

// SMTPSender delivers messages with go-mail
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Send dials the server and delivers a single message
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := buildMsg(m)
	if err != nil {
		return err
	}

	c, err := mail.NewClient(s.Host,
		mail.WithPort(s.Port),
		mail.WithUsername(s.Username),
		mail.WithPassword(s.Password),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
	)
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, msg)
}

func buildMsg(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.FromName, m.FromAddress); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.AddToFormat(m.ToName, m.ToAddress); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	msg.SetCharset(mail.CharsetUTF8)
	return msg, nil
}
