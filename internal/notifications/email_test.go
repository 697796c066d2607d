package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
)

func bookingEmail(t EmailType) *EmailNotification {
	return NewEmailBuilder().
		WithType(t).
		WithRecipient("jane@example.com", "Jane").
		WithSubject("Booking Request Received - Wedding at Main Hall").
		WithBooking(uuid.New()).
		WithTemplateData(map[string]interface{}{
			"customerName":    "Jane <Doe>",
			"customerEmail":   "jane@example.com",
			"customerPhone":   "0412345678",
			"ownerName":       "Cranbourne Hall",
			"eventType":       "Wedding",
			"hallName":        "Main Hall",
			"bookingCode":     "BK-20300101-ABCDE",
			"bookingDate":     "2030-01-01",
			"startTime":       "10:00",
			"endTime":         "12:00",
			"guestCount":      80,
			"calculatedPrice": 100.0,
			"status":          "confirmed",
			"statusLabel":     "Confirmed",
		}).
		Build()
}

func TestRendererRendersEveryTemplate(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}

	for _, typ := range []EmailType{EmailTypeBookingCustomer, EmailTypeBookingOwner, EmailTypeBookingStatus, EmailTypeBookingReminder} {
		html, text, err := r.Render(bookingEmail(typ))
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if !strings.Contains(html, "BK-20300101-ABCDE") || !strings.Contains(text, "BK-20300101-ABCDE") {
			t.Errorf("%s: booking code missing", typ)
		}
		if !strings.Contains(html, footer) {
			t.Errorf("%s: footer missing", typ)
		}
		if strings.Contains(html, "<Doe>") {
			t.Errorf("%s: html body not escaped", typ)
		}
	}

	html, text, _ := r.Render(bookingEmail(EmailTypeBookingCustomer))
	if !strings.Contains(html, "$100.00 + taxes") || !strings.Contains(text, "$100.00 + taxes") {
		t.Error("price not rendered as $X.XX + taxes")
	}
	if !strings.Contains(text, "Jane <Doe>") {
		t.Error("text body should not be html-escaped")
	}

	if _, _, err := r.Render(&EmailNotification{Type: "unknown"}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]interface{}{
		"$100.00": 100.0,
		"$12.50":  "12.5",
		"$7.00":   7,
		"$0.00":   nil,
	}
	for want, in := range cases {
		if got := formatMoney(in); got != want {
			t.Errorf("formatMoney(%v) = %q, want %q", in, got, want)
		}
	}
}

type flakySender struct {
	failures int
	calls    int
}

func (f *flakySender) Send(ctx context.Context, email *EmailNotification) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp unavailable")
	}
	return nil
}

func TestDirectDispatcherMarksStatus(t *testing.T) {
	email := bookingEmail(EmailTypeBookingCustomer)
	if err := NewDirectDispatcher(&flakySender{}, time.Second).Dispatch(context.Background(), email); err != nil {
		t.Fatal(err)
	}
	if email.Status != EmailStatusSent || email.SentAt == nil {
		t.Errorf("status = %s", email.Status)
	}

	email = bookingEmail(EmailTypeBookingCustomer)
	if err := NewDirectDispatcher(&flakySender{failures: 1}, time.Second).Dispatch(context.Background(), email); err == nil {
		t.Fatal("expected error")
	}
	if email.Status != EmailStatusFailed || email.LastError == nil {
		t.Errorf("status = %s", email.Status)
	}
}

func TestConsumerRetriesWithBackoff(t *testing.T) {
	sender := &flakySender{failures: 2}
	consumer := NewKafkaEmailConsumer(&ConsumerConfig{MaxRetries: 3, RetryBackoff: time.Millisecond}, sender)

	payload, _ := bookingEmail(EmailTypeBookingOwner).ToJSON()
	if err := consumer.deliver(context.Background(), payload); err != nil {
		t.Fatal(err)
	}
	if sender.calls != 3 {
		t.Errorf("calls = %d, want 3", sender.calls)
	}

	sender = &flakySender{failures: 10}
	consumer = NewKafkaEmailConsumer(&ConsumerConfig{MaxRetries: 2, RetryBackoff: time.Millisecond}, sender)
	if err := consumer.deliver(context.Background(), payload); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if sender.calls != 3 {
		t.Errorf("calls = %d, want 3", sender.calls)
	}

	if err := consumer.deliver(context.Background(), []byte("not json")); err != nil {
		t.Errorf("undecodable messages should be dropped, got %v", err)
	}
}

func TestKafkaProducerPublishesKeyedMessage(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	email := bookingEmail(EmailTypeBookingCustomer)

	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded EmailNotification
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded.ID != email.ID || decoded.Status != EmailStatusQueued {
			return errors.New("unexpected payload")
		}
		return nil
	})
	mp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := newKafkaEmailProducer(mp, &KafkaProducerConfig{Topic: "hallbook.emails"})
	if err := producer.Dispatch(context.Background(), email); err != nil {
		t.Fatal(err)
	}
	if email.Status != EmailStatusQueued {
		t.Errorf("status = %s", email.Status)
	}

	failed := bookingEmail(EmailTypeBookingOwner)
	if err := producer.Dispatch(context.Background(), failed); err == nil {
		t.Fatal("expected error")
	}
	if failed.Status != EmailStatusFailed {
		t.Errorf("status = %s", failed.Status)
	}

	if err := producer.Close(); err != nil {
		t.Fatal(err)
	}
}
