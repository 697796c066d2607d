package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// In-app notification types
const (
	TypeNewBooking    = "new_booking"
	TypeBookingStatus = "booking_status"
)

// Notification is an in-app message shown to a single user.
type Notification struct {
	ID        uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID              `json:"userId" gorm:"type:uuid;not null;index:idx_notifications_user_created"`
	Type      string                 `json:"type" gorm:"not null"`
	Title     string                 `json:"title" gorm:"not null"`
	Message   string                 `json:"message" gorm:"type:text"`
	Data      map[string]interface{} `json:"data,omitempty" gorm:"type:jsonb;serializer:json"`
	IsRead    bool                   `json:"isRead" gorm:"not null;default:false;index"`
	CreatedAt time.Time              `json:"createdAt" gorm:"index:idx_notifications_user_created"`
}

// EmailType names both the kind of e-mail and the template that renders it.
type EmailType string

const (
	EmailTypeBookingCustomer EmailType = "booking_customer"
	EmailTypeBookingOwner    EmailType = "booking_owner"
	EmailTypeBookingStatus   EmailType = "booking_status"
	EmailTypeBookingReminder EmailType = "booking_reminder"
)

type EmailPriority string

const (
	EmailPriorityLow    EmailPriority = "LOW"
	EmailPriorityMedium EmailPriority = "MEDIUM"
	EmailPriorityHigh   EmailPriority = "HIGH"
)

type EmailStatus string

const (
	EmailStatusPending  EmailStatus = "PENDING"
	EmailStatusQueued   EmailStatus = "QUEUED"
	EmailStatusSending  EmailStatus = "SENDING"
	EmailStatusSent     EmailStatus = "SENT"
	EmailStatusFailed   EmailStatus = "FAILED"
	EmailStatusRetrying EmailStatus = "RETRYING"
	EmailStatusExpired  EmailStatus = "EXPIRED"
)

// EmailNotification is the queue message for one outgoing e-mail. It is not persisted.
type EmailNotification struct {
	ID       uuid.UUID     `json:"id"`
	Type     EmailType     `json:"type"`
	Priority EmailPriority `json:"priority"`

	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	Subject      string                 `json:"subject"`
	TemplateData map[string]interface{} `json:"template_data"`

	BookingID *uuid.UUID `json:"booking_id,omitempty"`

	Status     EmailStatus `json:"status"`
	RetryCount int         `json:"retry_count"`
	MaxRetries int         `json:"max_retries"`
	LastError  *string     `json:"last_error,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	SentAt     *time.Time  `json:"sent_at,omitempty"`
}

type EmailBuilder struct {
	email *EmailNotification
}

func NewEmailBuilder() *EmailBuilder {
	now := time.Now()
	return &EmailBuilder{
		email: &EmailNotification{
			ID:           uuid.New(),
			Status:       EmailStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
			MaxRetries:   3,
			TemplateData: make(map[string]interface{}),
		},
	}
}

func (b *EmailBuilder) WithType(emailType EmailType) *EmailBuilder {
	b.email.Type = emailType
	b.email.Priority = defaultPriority(emailType)
	return b
}

func (b *EmailBuilder) WithRecipient(email, name string) *EmailBuilder {
	b.email.RecipientEmail = email
	b.email.RecipientName = name
	return b
}

func (b *EmailBuilder) WithSubject(subject string) *EmailBuilder {
	b.email.Subject = subject
	return b
}

func (b *EmailBuilder) WithTemplateData(data map[string]interface{}) *EmailBuilder {
	b.email.TemplateData = data
	return b
}

func (b *EmailBuilder) WithBooking(bookingID uuid.UUID) *EmailBuilder {
	b.email.BookingID = &bookingID
	return b
}

func (b *EmailBuilder) WithMaxRetries(maxRetries int) *EmailBuilder {
	b.email.MaxRetries = maxRetries
	return b
}

func (b *EmailBuilder) Build() *EmailNotification {
	return b.email
}

func defaultPriority(t EmailType) EmailPriority {
	switch t {
	case EmailTypeBookingCustomer, EmailTypeBookingStatus:
		return EmailPriorityHigh
	case EmailTypeBookingReminder:
		return EmailPriorityLow
	default:
		return EmailPriorityMedium
	}
}

// PartitionKey keeps all mail for one recipient on one partition.
func (e *EmailNotification) PartitionKey() string {
	return e.RecipientEmail
}

func (e *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *EmailNotification) MarkSent() {
	now := time.Now()
	e.Status = EmailStatusSent
	e.SentAt = &now
	e.UpdatedAt = now
}

func (e *EmailNotification) MarkFailed(err error) {
	e.Status = EmailStatusFailed
	e.UpdatedAt = time.Now()
	msg := err.Error()
	e.LastError = &msg
}

func (e *EmailNotification) IncrementRetry() {
	e.RetryCount++
	e.UpdatedAt = time.Now()
	if e.RetryCount < e.MaxRetries {
		e.Status = EmailStatusRetrying
	} else {
		e.Status = EmailStatusExpired
	}
}
