package email

type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
}

type Email struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Body        string
	HTMLBody    string
	Attachments []Attachment
}

type TemplateData map[string]interface{}

// Template names used by the notification service.
const (
	TemplatePaymentApproved = "payment_approved"
	TemplatePaymentRejected = "payment_rejected"
	TemplateRenewalReminder = "renewal_reminder"
)
