package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wneessen/go-mail"
)

type fakeSender struct {
	err  error
	sent []*mail.Msg
}

func (f *fakeSender) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.err
}

func newTestMailer(cfg Config, s *fakeSender) (*Mailer, *int) {
	dials := 0
	m := New(cfg)
	m.newSender = func(Config) (Sender, error) {
		dials++
		return s, nil
	}
	return m, &dials
}

func fullConfig() Config {
	return Config{
		From:     "digest@example.com",
		Password: "app-password",
		To:       "reader@example.com",
		Host:     "smtp.example.com",
		Port:     587,
	}
}

func TestSendSkipsWhenNotConfigured(t *testing.T) {
	cases := map[string]func(c *Config){
		"no sender":    func(c *Config) { c.From = "" },
		"no password":  func(c *Config) { c.Password = "" },
		"no recipient": func(c *Config) { c.To = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := fullConfig()
			mutate(&cfg)
			m, dials := newTestMailer(cfg, &fakeSender{})

			err := m.Send(context.Background(), "subject", "<p>body</p>")
			if !errors.Is(err, ErrNotConfigured) {
				t.Fatalf("Send() error = %v, want ErrNotConfigured", err)
			}
			if *dials != 0 {
				t.Fatalf("dialed %d times, want 0", *dials)
			}
		})
	}
}

func TestSendDeliversHTMLMessage(t *testing.T) {
	s := &fakeSender{}
	m, dials := newTestMailer(fullConfig(), s)

	if err := m.Send(context.Background(), "Your Daily Cybersecurity News Digest", "<h2>Hello</h2>"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if *dials != 1 || len(s.sent) != 1 {
		t.Fatalf("dials = %d sent = %d, want 1/1", *dials, len(s.sent))
	}

	var buf bytes.Buffer
	if _, err := s.sent[0].WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{
		"Subject: Your Daily Cybersecurity News Digest",
		"digest@example.com",
		"reader@example.com",
		"text/html",
		"Hello",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}
}

func TestSendReturnsDeliveryError(t *testing.T) {
	s := &fakeSender{err: errors.New("535 authentication failed")}
	m, _ := newTestMailer(fullConfig(), s)

	err := m.Send(context.Background(), "s", "b")
	if err == nil || errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Send() error = %v, want delivery error", err)
	}
}

func TestSendRejectsInvalidAddress(t *testing.T) {
	cfg := fullConfig()
	cfg.To = "not an address"
	m, dials := newTestMailer(cfg, &fakeSender{})

	if err := m.Send(context.Background(), "s", "b"); err == nil {
		t.Fatalf("Send() with invalid recipient: expected error")
	}
	if *dials != 0 {
		t.Fatalf("dialed with invalid message")
	}
}

func TestNewSMTPClient(t *testing.T) {
	s, err := newSMTPClient(fullConfig())
	if err != nil {
		t.Fatalf("newSMTPClient() error: %v", err)
	}
	if _, ok := s.(*mail.Client); !ok {
		t.Fatalf("newSMTPClient() = %T, want *mail.Client", s)
	}
}
