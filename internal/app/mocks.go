package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/loki1512/MS-Fitness-Gym/internal/email"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
)

// LogEmailProvider renders mail but only logs it. It stands in for SMTP in
// development and tests, and remembers what it was asked to send.
type LogEmailProvider struct {
	renderer email.TemplateRenderer

	mu   sync.Mutex
	sent []email.Email
}

func NewLogEmailProvider(renderer email.TemplateRenderer) *LogEmailProvider {
	return &LogEmailProvider{renderer: renderer}
}

func (p *LogEmailProvider) Send(msg *email.Email) error {
	if len(msg.To) == 0 {
		return errors.New("email has no recipients")
	}

	p.mu.Lock()
	p.sent = append(p.sent, *msg)
	p.mu.Unlock()

	logger.Info("email not sent (log provider)",
		"to", msg.To,
		"subject", msg.Subject,
		"html_bytes", len(msg.HTMLBody),
	)
	return nil
}

func (p *LogEmailProvider) SendWithTemplate(templateName string, data email.TemplateData, msg *email.Email) error {
	if p.renderer != nil {
		body, err := p.renderer.Render(templateName, data)
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		msg.HTMLBody = body
	}
	return p.Send(msg)
}

func (p *LogEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	return p.SendWithTemplate(templateName, data, &email.Email{To: to, Subject: subject})
}

func (p *LogEmailProvider) Validate() error { return nil }
func (p *LogEmailProvider) Close() error    { return nil }

// Sent returns a copy of every message accepted so far.
func (p *LogEmailProvider) Sent() []email.Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]email.Email, len(p.sent))
	copy(out, p.sent)
	return out
}
