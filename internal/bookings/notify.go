package bookings

import (
	"context"
	"fmt"

	"hallbook/internal/notifications"
	"hallbook/internal/users"
	"hallbook/pkg/logger"
)

// effectContext detaches a side effect from the request so a client hanging
// up does not abort it, and bounds it with the side-effect timeout.
func (s *service) effectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.config.SideEffectTimeout > 0 {
		return context.WithTimeout(ctx, s.config.SideEffectTimeout)
	}
	return context.WithCancel(ctx)
}

// notifyCreated tells the owner (in-app and e-mail) and the customer (e-mail)
// about a new request. Every failure is logged and swallowed.
func (s *service) notifyCreated(ctx context.Context, booking *Booking, owner *users.User) {
	if s.deps.Notifications != nil {
		s.createNotification(ctx, &notifications.Notification{
			UserID:  owner.ID,
			Type:    notifications.TypeNewBooking,
			Title:   "New Booking Request",
			Message: fmt.Sprintf("New booking request from %s for %s", booking.CustomerName, booking.BookingDate),
			Data: map[string]interface{}{
				"bookingId":    booking.ID.String(),
				"bookingCode":  booking.BookingCode,
				"customerName": booking.CustomerName,
				"bookingDate":  booking.BookingDate,
				"hallName":     booking.HallName,
			},
		})
	}

	if s.deps.Emails == nil {
		return
	}

	data := emailData(booking)
	s.dispatch(ctx, notifications.NewEmailBuilder().
		WithType(notifications.EmailTypeBookingCustomer).
		WithRecipient(booking.CustomerEmail, booking.CustomerName).
		WithSubject(fmt.Sprintf("Booking Request Received - %s at %s", booking.EventType, booking.HallName)).
		WithTemplateData(data).
		WithBooking(booking.ID).
		Build())

	if owner.Email == "" {
		return
	}
	ownerData := emailData(booking)
	ownerData["ownerName"] = owner.DisplayName()
	s.dispatch(ctx, notifications.NewEmailBuilder().
		WithType(notifications.EmailTypeBookingOwner).
		WithRecipient(owner.Email, owner.DisplayName()).
		WithSubject("New Booking Request - "+booking.CustomerName).
		WithTemplateData(ownerData).
		WithBooking(booking.ID).
		Build())
}

func (s *service) notifyStatusChanged(ctx context.Context, booking *Booking) {
	if s.deps.Notifications != nil && booking.CustomerID != nil {
		s.createNotification(ctx, &notifications.Notification{
			UserID:  *booking.CustomerID,
			Type:    notifications.TypeBookingStatus,
			Title:   "Booking " + booking.Status.Label(),
			Message: fmt.Sprintf("Your booking %s on %s is now %s", booking.BookingCode, booking.BookingDate, booking.Status),
			Data: map[string]interface{}{
				"bookingId":   booking.ID.String(),
				"bookingCode": booking.BookingCode,
				"status":      string(booking.Status),
			},
		})
	}

	if s.deps.Emails == nil {
		return
	}
	s.dispatch(ctx, notifications.NewEmailBuilder().
		WithType(notifications.EmailTypeBookingStatus).
		WithRecipient(booking.CustomerEmail, booking.CustomerName).
		WithSubject(fmt.Sprintf("Booking %s - %s", booking.Status.Label(), booking.BookingCode)).
		WithTemplateData(emailData(booking)).
		WithBooking(booking.ID).
		Build())
}

// SendReminders e-mails every customer with a confirmed booking on date and
// returns how many reminders were handed off.
func (s *service) SendReminders(ctx context.Context, date string) (int, error) {
	list, err := s.repo.ListByDateAndStatus(ctx, date, StatusConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to load bookings for reminders: %w", err)
	}
	if s.deps.Emails == nil {
		return 0, nil
	}

	sent := 0
	for i := range list {
		b := &list[i]
		ok := s.dispatch(ctx, notifications.NewEmailBuilder().
			WithType(notifications.EmailTypeBookingReminder).
			WithRecipient(b.CustomerEmail, b.CustomerName).
			WithSubject(fmt.Sprintf("Reminder: %s at %s tomorrow", b.EventType, b.HallName)).
			WithTemplateData(emailData(b)).
			WithBooking(b.ID).
			Build())
		if ok {
			sent++
		}
	}

	logger.GetDefault().InfoWithContext(ctx, "Booking reminders dispatched", map[string]interface{}{
		"date":  date,
		"found": len(list),
		"sent":  sent,
	})
	return sent, nil
}

func (s *service) createNotification(ctx context.Context, n *notifications.Notification) {
	ctx, cancel := s.effectContext(ctx)
	defer cancel()

	if err := s.deps.Notifications.CreateNotification(ctx, n); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to create notification", err, map[string]interface{}{
			"user_id": n.UserID.String(),
			"type":    n.Type,
		})
	}
}

func (s *service) dispatch(ctx context.Context, email *notifications.EmailNotification) bool {
	ctx, cancel := s.effectContext(ctx)
	defer cancel()

	if err := s.deps.Emails.Dispatch(ctx, email); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Failed to dispatch email", err, map[string]interface{}{
			"email_type": string(email.Type),
			"recipient":  email.RecipientEmail,
		})
		return false
	}
	return true
}

func emailData(b *Booking) map[string]interface{} {
	guests := "N/A"
	if b.GuestCount != nil {
		guests = fmt.Sprint(*b.GuestCount)
	}
	return map[string]interface{}{
		"customerName":          b.CustomerName,
		"customerEmail":         b.CustomerEmail,
		"customerPhone":         b.CustomerPhone,
		"eventType":             b.EventType,
		"hallName":              b.HallName,
		"bookingCode":           b.BookingCode,
		"bookingDate":           b.BookingDate,
		"startTime":             b.StartTime,
		"endTime":               b.EndTime,
		"guestCount":            guests,
		"calculatedPrice":       b.CalculatedPrice,
		"status":                string(b.Status),
		"statusLabel":           b.Status.Label(),
		"additionalDescription": b.AdditionalDescription,
	}
}
