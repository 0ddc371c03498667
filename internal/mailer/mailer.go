package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/deusflow/cyberdigest/internal/logger"
)

// ErrNotConfigured means a sender address, password or recipient is missing.
var ErrNotConfigured = errors.New("email credentials not fully set")

// Sender delivers messages over one SMTP session. *mail.Client implements it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Config struct {
	From     string
	Password string
	To       string
	Host     string
	Port     int
}

// Mailer sends HTML digests to a single recipient.
type Mailer struct {
	cfg       Config
	newSender func(Config) (Sender, error)
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, newSender: newSMTPClient}
}

// newSMTPClient authenticates with PLAIN after a mandatory STARTTLS upgrade.
func newSMTPClient(cfg Config) (Sender, error) {
	return mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.From),
		mail.WithPassword(cfg.Password),
	)
}

func (m *Mailer) missing() []string {
	var missing []string
	if m.cfg.From == "" {
		missing = append(missing, "SENDER_EMAIL")
	}
	if m.cfg.Password == "" {
		missing = append(missing, "SENDER_PASSWORD")
	}
	if m.cfg.To == "" {
		missing = append(missing, "RECIPIENT_EMAIL")
	}
	return missing
}

// Send delivers one HTML message. Failures are logged here; callers only
// need the error for bookkeeping.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody string) error {
	if missing := m.missing(); len(missing) > 0 {
		logger.Warn("email credentials not fully set, skipping email", "missing", strings.Join(missing, ", "))
		return ErrNotConfigured
	}

	msg, err := m.buildMessage(subject, htmlBody)
	if err != nil {
		logger.Error("failed to build email", "err", err)
		return err
	}

	sender, err := m.newSender(m.cfg)
	if err != nil {
		logger.Error("failed to create SMTP client", "host", m.cfg.Host, "port", m.cfg.Port, "err", err)
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := sender.DialAndSendWithContext(ctx, msg); err != nil {
		logger.Error("failed to send email", "to", m.cfg.To, "err", err)
		logger.Error("check SENDER_EMAIL, SENDER_PASSWORD (use an App Password for Gmail) and RECIPIENT_EMAIL in the .env file")
		logger.Error("for Gmail, enable 2FA and create an App Password; less secure app access must stay off")
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("email sent", "to", m.cfg.To)
	return nil
}

func (m *Mailer) buildMessage(subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}
