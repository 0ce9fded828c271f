package email

// Provider sends outbound mail.
type Provider interface {
	Send(email *Email) error

	// SendWithTemplate renders templateName into email.HTMLBody and sends it.
	SendWithTemplate(templateName string, data TemplateData, email *Email) error

	// SendTemplate is SendWithTemplate for the common single-subject case.
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	Validate() error
	Close() error
}

// TemplateRenderer turns a named template and data into an HTML body.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}
