package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
)

const footer = "Cranbourne Public Hall Management System"

var templateFuncs = map[string]interface{}{
	"money":  formatMoney,
	"footer": func() string { return footer },
}

const htmlTemplates = `
{{define "booking_customer"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Booking Request Received</h2>
  <p>Dear {{.customerName}},</p>
  <p>Thank you for your booking request. We have received it and the hall owner will review it shortly.</p>
  <table>
    <tr><td><strong>Booking Reference:</strong></td><td>{{.bookingCode}}</td></tr>
    <tr><td><strong>Event Type:</strong></td><td>{{.eventType}}</td></tr>
    <tr><td><strong>Hall:</strong></td><td>{{.hallName}}</td></tr>
    <tr><td><strong>Date:</strong></td><td>{{.bookingDate}}</td></tr>
    <tr><td><strong>Time:</strong></td><td>{{.startTime}} - {{.endTime}}</td></tr>
    <tr><td><strong>Estimated Price:</strong></td><td>{{money .calculatedPrice}} + taxes</td></tr>
  </table>
  <p>Your booking is currently <strong>pending</strong>. You will receive another e-mail once it has been confirmed.</p>
  <p style="color: #888; font-size: 12px;">{{footer}}</p>
</div>{{end}}

{{define "booking_owner"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Booking Request</h2>
  <p>Hello {{.ownerName}},</p>
  <p>You have received a new booking request from <strong>{{.customerName}}</strong>.</p>
  <table>
    <tr><td><strong>Booking Reference:</strong></td><td>{{.bookingCode}}</td></tr>
    <tr><td><strong>Customer Email:</strong></td><td>{{.customerEmail}}</td></tr>
    <tr><td><strong>Customer Phone:</strong></td><td>{{.customerPhone}}</td></tr>
    <tr><td><strong>Event Type:</strong></td><td>{{.eventType}}</td></tr>
    <tr><td><strong>Hall:</strong></td><td>{{.hallName}}</td></tr>
    <tr><td><strong>Date:</strong></td><td>{{.bookingDate}}</td></tr>
    <tr><td><strong>Time:</strong></td><td>{{.startTime}} - {{.endTime}}</td></tr>
    <tr><td><strong>Guests:</strong></td><td>{{.guestCount}}</td></tr>
    <tr><td><strong>Estimated Price:</strong></td><td>{{money .calculatedPrice}} + taxes</td></tr>
  </table>
  {{if .additionalDescription}}<p><strong>Notes:</strong> {{.additionalDescription}}</p>{{end}}
  <p style="color: #888; font-size: 12px;">{{footer}}</p>
</div>{{end}}

{{define "booking_status"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Booking {{.statusLabel}}</h2>
  <p>Dear {{.customerName}},</p>
  <p>Your booking <strong>{{.bookingCode}}</strong> for {{.hallName}} on {{.bookingDate}} ({{.startTime}} - {{.endTime}}) is now <strong>{{.status}}</strong>.</p>
  <p style="color: #888; font-size: 12px;">{{footer}}</p>
</div>{{end}}

{{define "booking_reminder"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Booking Reminder</h2>
  <p>Dear {{.customerName}},</p>
  <p>This is a reminder that your {{.eventType}} at {{.hallName}} is tomorrow, {{.bookingDate}}, from {{.startTime}} to {{.endTime}}.</p>
  <p>Booking Reference: <strong>{{.bookingCode}}</strong></p>
  <p style="color: #888; font-size: 12px;">{{footer}}</p>
</div>{{end}}
`

const textTemplates = `
{{define "booking_customer"}}Dear {{.customerName}},

Thank you for your booking request. We have received it and the hall owner will review it shortly.

Booking Reference: {{.bookingCode}}
Event Type: {{.eventType}}
Hall: {{.hallName}}
Date: {{.bookingDate}}
Time: {{.startTime}} - {{.endTime}}
Estimated Price: {{money .calculatedPrice}} + taxes

{{footer}}{{end}}

{{define "booking_owner"}}Hello {{.ownerName}},

New booking request from {{.customerName}} ({{.customerEmail}}, {{.customerPhone}}).

Booking Reference: {{.bookingCode}}
Event Type: {{.eventType}}
Hall: {{.hallName}}
Date: {{.bookingDate}}
Time: {{.startTime}} - {{.endTime}}
Guests: {{.guestCount}}
Estimated Price: {{money .calculatedPrice}} + taxes

{{footer}}{{end}}

{{define "booking_status"}}Dear {{.customerName}},

Your booking {{.bookingCode}} for {{.hallName}} on {{.bookingDate}} ({{.startTime}} - {{.endTime}}) is now {{.status}}.

{{footer}}{{end}}

{{define "booking_reminder"}}Dear {{.customerName}},

Reminder: your {{.eventType}} at {{.hallName}} is tomorrow, {{.bookingDate}}, from {{.startTime}} to {{.endTime}}.
Booking Reference: {{.bookingCode}}

{{footer}}{{end}}
`

// Renderer turns an EmailNotification into HTML and plain-text bodies.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	h, err := htmltemplate.New("emails").Funcs(htmltemplate.FuncMap(templateFuncs)).Parse(htmlTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	t, err := texttemplate.New("emails").Funcs(texttemplate.FuncMap(templateFuncs)).Parse(textTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	return &Renderer{html: h, text: t}, nil
}

func (r *Renderer) Render(e *EmailNotification) (string, string, error) {
	name := string(e.Type)
	if r.html.Lookup(name) == nil {
		return "", "", fmt.Errorf("template %s not found", name)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := r.html.ExecuteTemplate(&htmlBuf, name, e.TemplateData); err != nil {
		return "", "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	if err := r.text.ExecuteTemplate(&textBuf, name, e.TemplateData); err != nil {
		return "", "", fmt.Errorf("failed to execute text template: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// formatMoney renders prices as $X.XX. Kafka round-trips turn numbers into float64.
func formatMoney(v interface{}) string {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		f, _ = strconv.ParseFloat(n, 64)
	}
	return fmt.Sprintf("$%.2f", f)
}
