package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/dulceria-api/internal/application/auth"
	"github.com/jhoicas/dulceria-api/pkg/config"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

var (
	_ auth.Mailer = (*SMTPMailer)(nil)
	_ auth.Mailer = (*LogMailer)(nil)
)

// sender abstrae gomail.Dialer para poder probar sin servidor SMTP.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía correos vía SMTP con gomail.
type SMTPMailer struct {
	dialer sender
	from   string
	log    *logger.Logger
}

// NewSMTPMailer construye el mailer a partir de la configuración SMTP.
func NewSMTPMailer(cfg config.MailConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log.Named("mail"),
	}
}

// SendPasswordReset arma el mensaje multiparte (texto + HTML) y lo envía.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, msg auth.PasswordResetMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	plain, html, err := renderPasswordReset(msg)
	if err != nil {
		return fmt.Errorf("render correo de recuperación: %w", err)
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", PasswordResetSubject)
	gm.SetBody("text/plain", plain)
	gm.AddAlternative("text/html", html)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", msg.To, err)
	}
	m.log.Info().Str("to", msg.To).Msg("correo de recuperación enviado")
	return nil
}

// LogMailer sólo registra el enlace (desarrollo, sin SMTP configurado).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Named("mail")}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, msg auth.PasswordResetMail) error {
	m.log.Warn().Str("to", msg.To).Str("link", msg.Link).Dur("expires_in", msg.ExpiresIn).
		Msg("SMTP no configurado: enlace de recuperación sólo en log")
	return nil
}

// New elige SMTP si hay servidor configurado; si no, el mailer de log.
func New(cfg config.MailConfig, log *logger.Logger) auth.Mailer {
	if cfg.Enabled() {
		return NewSMTPMailer(cfg, log)
	}
	return NewLogMailer(log)
}
