package email

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplatesRender(t *testing.T) {
	tm, err := NewDefaultTemplateManager("")
	require.NoError(t, err)

	html, err := tm.Render(TemplatePaymentApproved, TemplateData{
		"Name":      "Asha",
		"Amount":    1500.0,
		"Plan":      "Quarterly",
		"StartDate": "2024-01-11",
		"EndDate":   "2024-04-10",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "1500.00")
	assert.Contains(t, html, "2024-04-10")

	html, err = tm.Render(TemplatePaymentRejected, TemplateData{"Name": "<b>x</b>", "Amount": 10.0, "Plan": "P"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<b>x</b>", "values must be escaped")
	assert.NotContains(t, html, "Reason:")
}

func TestLoadTemplatesOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplateRenewalReminder+".html"), []byte("custom {{.Name}}"), 0o600))

	tm, err := NewDefaultTemplateManager(dir)
	require.NoError(t, err)

	html, err := tm.Render(TemplateRenewalReminder, TemplateData{"Name": "Ravi"})
	require.NoError(t, err)
	assert.Equal(t, "custom Ravi", html)
	assert.Len(t, tm.TemplateNames(), 3)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := NewTemplateManager().Render("missing", nil)
	assert.Error(t, err)
}

func TestSMTPProviderValidate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "", Port: 25}, nil)
	assert.Error(t, p.Validate())

	p = NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 70000}, nil)
	assert.Error(t, p.Validate())

	p = NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587}, nil)
	assert.NoError(t, p.Validate())
	assert.Error(t, p.Send(&Email{Subject: "no recipients"}))
}
