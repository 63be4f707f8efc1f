package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-api/internal/model"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPService sends notification mail through the configured SMTP
// server.
func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendAppointmentBooked(ctx context.Context, patient model.Patient, doctor model.Doctor, apt model.Appointment) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nYour appointment with %s (%s) on %s at %s is confirmed.\r\n",
		patient.Name, doctor.Name, doctor.Specialty, apt.Date, apt.Time,
	)
	return s.send(ctx, patient.Email, subject, body)
}

func (s *smtpService) SendAppointmentCancelled(ctx context.Context, patient model.Patient, doctor model.Doctor, apt model.Appointment) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nYour appointment with %s (%s) on %s at %s has been cancelled.\r\n",
		patient.Name, doctor.Name, doctor.Specialty, apt.Date, apt.Time,
	)
	return s.send(ctx, patient.Email, subject, body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
