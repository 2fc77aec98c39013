package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/dentalcare-api/internal/config"
	"github.com/jwalitptl/dentalcare-api/internal/model"
)

type Service interface {
	SendAppointmentConfirmation(ctx context.Context, patient *model.Patient, appointment *model.Appointment) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

// Sender delivers a composed message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	from   string
	sender Sender
}

// NewService returns an SMTP-backed Service, or a no-op one when SMTP is
// disabled.
func NewService(cfg config.SMTPConfig) Service {
	if !cfg.Enabled {
		return NoopService{}
	}
	return NewSMTPService(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func NewSMTPService(from string, sender Sender) Service {
	return &smtpService{from: from, sender: sender}
}

func (s *smtpService) SendAppointmentConfirmation(ctx context.Context, patient *model.Patient, appointment *model.Appointment) error {
	if patient.Email == "" {
		return nil
	}

	subject := "Appointment confirmation"
	body := fmt.Sprintf(
		"<p>Dear %s %s,</p><p>Your %s appointment is scheduled for %s at %s.</p><p>Thank you.</p>",
		patient.FirstName,
		patient.LastName,
		appointment.Type,
		appointment.Date.Format(model.DateLayout),
		appointment.Time,
	)
	return s.SendCustom(ctx, patient.Email, subject, body)
}

func (s *smtpService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", content)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	log.Ctx(ctx).Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// NoopService drops every message.
type NoopService struct{}

func (NoopService) SendAppointmentConfirmation(context.Context, *model.Patient, *model.Appointment) error {
	return nil
}

func (NoopService) SendCustom(context.Context, string, string, string) error { return nil }
