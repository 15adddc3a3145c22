package mailer

import (
	"fmt"

	"account-service/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers account emails. The auth flows depend on this interface so
// tests swap in a recording fake.
type Sender interface {
	SendVerificationCode(to, firstName, code string) error
	SendOTP(to, firstName, code string) error
	SendPasswordReset(to, firstName, link string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

// New builds an SMTP sender. Without SMTP credentials the sender degrades to
// logging the message body so local development keeps working.
func New(config utils.EmailConfig, log *zap.Logger) Sender {
	if config.Host == "" || config.User == "" {
		log.Warn("SMTP not configured, emails will only be logged")
		return &smtpSender{from: config.From, log: log}
	}

	return &smtpSender{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   config.From,
		log:    log,
	}
}

func (s *smtpSender) SendVerificationCode(to, firstName, code string) error {
	body := codeTemplate(firstName, "Your verification code:", code,
		"Please use this code to verify your email address.")
	return s.send(to, "Verification code", body)
}

func (s *smtpSender) SendOTP(to, firstName, code string) error {
	body := codeTemplate(firstName, "Your one-time password:", code,
		"Please use this one-time password to sign in.")
	return s.send(to, "One-time password", body)
}

func (s *smtpSender) SendPasswordReset(to, firstName, link string) error {
	body := fmt.Sprintf(`
		<h2>Hi %s!</h2>
		<p>To reset your password, follow this <a target="_self" href="%s">link</a>.</p>
	`, firstName, link)
	return s.send(to, "Password reset", body)
}

func (s *smtpSender) send(to, subject, body string) error {
	if s.dialer == nil {
		s.log.Info("Email suppressed (SMTP not configured)",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	return nil
}

func codeTemplate(firstName, lead, code, hint string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<div style="background-color: #f8f8f8; padding: 20px;">
				<h2 style="color: #333;">Hi %s,</h2>
				<p style="font-size: 16px;">%s</p>
				<div style="background-color: #fff; border: 1px solid #ccc; padding: 15px; border-radius: 5px; margin-top: 10px;">
					<h3 style="margin: 0; font-size: 24px; color: #007bff;">%s</h3>
				</div>
				<p style="font-size: 14px; margin-top: 15px;">%s</p>
			</div>
			<p style="font-size: 14px; color: #666; margin-top: 20px;">This email was sent automatically. Please do not reply.</p>
		</div>
	`, firstName, lead, code, hint)
}
