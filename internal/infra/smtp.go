package infra

import (
	"fmt"
	"net/smtp"

	"github.com/driman-systems/fondue/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends back-office emails over SMTP. All sends go through a circuit
// breaker: when the SMTP server is down the breaker fast-fails and the worker
// requeues the job instead of blocking on timeouts.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	breaker  *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewCircuitBreaker(DefaultCBConfig()),
	}
}

// Send delivers a plain-text email with optional file attachments.
func (m *Mailer) Send(to, subject, body string, attachments ...string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	for _, path := range attachments {
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", path, err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.breaker.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}
