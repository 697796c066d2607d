package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hallbook/internal/notifications"
	"hallbook/internal/pricing"
	"hallbook/internal/resources"
	"hallbook/internal/shared/config"
	"hallbook/internal/shared/constants"
	"hallbook/internal/users"
	"hallbook/pkg/cache"
	"hallbook/pkg/logger"
	"hallbook/pkg/retry"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type OwnerDirectory interface {
	GetHallOwner(ctx context.Context, id string) (*users.User, error)
}

type ResourceLookup interface {
	GetResource(ctx context.Context, id string) (*resources.Resource, error)
}

// PricingLookup returns the first rule for a resource, or nil when none exists.
type PricingLookup interface {
	FindRule(ctx context.Context, ownerID, resourceID string) (*pricing.Rule, error)
}

type NotificationCreator interface {
	CreateNotification(ctx context.Context, n *notifications.Notification) error
}

// Actor is the authenticated user acting on bookings.
type Actor struct {
	UserID string
	Admin  bool
}

// CanManage reports whether the actor may act on ownerID's bookings.
func (a Actor) CanManage(ownerID string) bool {
	return a.Admin || (a.UserID != "" && a.UserID == ownerID)
}

type Service interface {
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error)
	GetUnavailableDates(ctx context.Context, ownerID string, q UnavailableDatesQuery) (*UnavailableDatesResponse, error)
	ListDebugBookings(ctx context.Context, ownerID string, includeAll bool) (*DebugListResponse, error)
	DeleteDebugBooking(ctx context.Context, ownerID, bookingID string) error
	ListOwnerBookings(ctx context.Context, ownerID string, q OwnerBookingsQuery) ([]Booking, error)
	UpdateStatus(ctx context.Context, actor Actor, bookingID string, next Status) (*StatusChangeResponse, error)
	ListCustomerBookings(ctx context.Context, customerID string, q HistoryQuery) (*BookingListResponse, error)
	SendReminders(ctx context.Context, date string) (int, error)
}

// Dependencies are the collaborators of the booking service. Cache and
// SlotLocker may be nil.
type Dependencies struct {
	Owners        OwnerDirectory
	Resources     ResourceLookup
	Pricing       PricingLookup
	Notifications NotificationCreator
	Emails        notifications.Dispatcher
	Cache         cache.Service
	SlotLocker    SlotLocker
	Now           func() time.Time
}

type service struct {
	repo   Repository
	deps   Dependencies
	config config.BookingConfig
	policy retry.Policy
	codes  *codeAllocator
	now    func() time.Time
}

func NewService(repo Repository, deps Dependencies, cfg config.BookingConfig) Service {
	s := &service{
		repo:   repo,
		deps:   deps,
		config: cfg,
		policy: retry.Policy{
			Timeout: cfg.LookupTimeout,
			Retries: cfg.LookupRetries,
			Backoff: cfg.RetryBackoff,
		},
		now: deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if !cfg.SlotLockEnabled {
		s.deps.SlotLocker = nil
	}
	s.codes = newCodeAllocator(cfg.CodeAttempts, func(ctx context.Context, code string) (bool, error) {
		return retry.Do(ctx, s.policy, func(ctx context.Context) (bool, error) {
			return repo.CodeExists(ctx, code)
		})
	})
	return s
}

// CreateBooking validates the request, checks the slot, prices it, stores it
// as pending and then fires the owner/customer side effects.
func (s *service) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	v, err := validateCreate(req, s.now())
	if err != nil {
		return nil, err
	}

	owner, err := s.deps.Owners.GetHallOwner(ctx, req.HallOwnerID)
	if err != nil {
		return nil, err
	}

	ownerID := owner.ID.String()
	lookup, err := s.lookupResourceAndRule(ctx, ownerID, req.SelectedHall)
	if err != nil {
		return nil, err
	}
	resource := lookup.resource
	resourceID := resource.ID.String()

	if s.deps.SlotLocker != nil {
		release, err := s.deps.SlotLocker.Acquire(ctx, constants.BuildSlotLockKey(ownerID, resourceID, req.BookingDate))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	existing, err := retry.Do(ctx, s.policy, func(ctx context.Context) ([]Booking, error) {
		return s.repo.ListSlot(ctx, ownerID, resourceID, req.BookingDate)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for slot: %w", err)
	}

	if conflict := FindConflict(existing, req.StartTime, req.EndTime); conflict != nil {
		requested := req.StartTime + " - " + req.EndTime
		booked := conflict.StartTime + " - " + conflict.EndTime
		logger.GetDefault().LogBookingConflict(ctx, resourceID, req.BookingDate, requested, booked)
		return nil, &ConflictError{
			Conflict: conflict,
			Debug: ConflictDebug{
				RequestedTime: requested,
				BookedTime:    booked,
				Date:          req.BookingDate,
				Resource:      resource.Name,
			},
		}
	}

	price, details := s.quote(ctx, v, lookup.rule, lookup.ruleErr)

	booking := &Booking{
		ID:                    uuid.New(),
		CustomerID:            v.customerID,
		CustomerName:          v.name,
		CustomerEmail:         v.email,
		CustomerPhone:         v.phone,
		CustomerAvatar:        v.avatar,
		EventType:             req.EventType,
		SelectedHall:          resource.ID,
		HallName:              resource.Name,
		HallOwnerID:           owner.ID,
		BookingDate:           req.BookingDate,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		GuestCount:            req.GuestCount.Value,
		AdditionalDescription: req.AdditionalDescription,
		Status:                StatusPending,
		CalculatedPrice:       price,
		PriceDetails:          details,
		BookingSource:         v.source,
	}
	booking.BookingCode = s.allocateCode(ctx, booking)

	if err := s.insert(ctx, booking); err != nil {
		return nil, err
	}

	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), booking.BookingCode, ownerID, resourceID)
	s.invalidateCalendar(ctx, ownerID)
	s.notifyCreated(ctx, booking, owner)

	return &CreateBookingResponse{
		BookingID:       booking.ID.String(),
		BookingCode:     booking.BookingCode,
		BookingSource:   booking.BookingSource,
		CalculatedPrice: booking.CalculatedPrice,
		Status:          booking.Status,
	}, nil
}

// slotLookup is the result of the concurrent resource and pricing reads.
type slotLookup struct {
	resource *resources.Resource
	rule     *pricing.Rule
	ruleErr  error
}

// lookupResourceAndRule fetches the resource and its pricing rule
// concurrently. A pricing failure is kept in ruleErr and never fails the
// lookup.
func (s *service) lookupResourceAndRule(ctx context.Context, ownerID, resourceID string) (*slotLookup, error) {
	out := &slotLookup{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.deps.Resources.GetResource(gctx, resourceID)
		if err != nil {
			return err
		}
		out.resource = r
		return nil
	})
	g.Go(func() error {
		out.rule, out.ruleErr = s.deps.Pricing.FindRule(gctx, ownerID, resourceID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !out.resource.BelongsTo(ownerID) {
		return nil, ErrResourceOwnerMismatch
	}
	return out, nil
}

// quote prices the booking. Missing rules and lookup failures fall back to
// the client estimate.
func (s *service) quote(ctx context.Context, v *validatedBooking, rule *pricing.Rule, ruleErr error) (float64, *pricing.PriceDetails) {
	estimated := v.req.EstimatedPrice.Value
	if ruleErr != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Pricing lookup failed, using estimated price", ruleErr, map[string]interface{}{
			"resource_id": v.req.SelectedHall,
		})
		return pricing.Fallback(estimated), nil
	}
	if rule == nil {
		logger.GetDefault().InfoWithContext(ctx, "No pricing found for resource", map[string]interface{}{
			"resource_id": v.req.SelectedHall,
		})
		return pricing.Fallback(estimated), nil
	}

	q, err := pricing.Calculate(*rule, v.date, v.req.StartTime, v.req.EndTime, estimated)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Price calculation failed, using estimated price", err, nil)
		return pricing.Fallback(estimated), nil
	}
	return q.Price, q.Details
}

func (s *service) allocateCode(ctx context.Context, booking *Booking) string {
	ymd := codeDate(booking.BookingDate)
	code, ok, err := s.codes.Allocate(ctx, ymd)
	if err != nil {
		logger.GetDefault().WarnWithContext(ctx, "Booking code lookup failed, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if ok {
		return code
	}
	return FallbackCode(ymd, booking.ID)
}

// insert stores the booking. A code taken between allocation and insert is
// replaced by the fallback code once.
func (s *service) insert(ctx context.Context, booking *Booking) error {
	err := s.repo.Create(ctx, booking)
	if errors.Is(err, ErrDuplicateCode) {
		fallback := FallbackCode(codeDate(booking.BookingDate), booking.ID)
		if booking.BookingCode != fallback {
			logger.GetDefault().WarnWithContext(ctx, "Booking code collided on insert, retrying with fallback", map[string]interface{}{
				"booking_code": booking.BookingCode,
			})
			booking.BookingCode = fallback
			err = s.repo.Create(ctx, booking)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, bookingID string, next Status) (*StatusChangeResponse, error) {
	booking, err := retry.Do(ctx, s.policy, func(ctx context.Context) (*Booking, error) {
		return s.repo.GetByID(ctx, bookingID)
	}, ErrBookingNotFound)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(booking.HallOwnerID.String()) {
		return nil, ErrBookingNotFound
	}

	previous := booking.Status
	if !previous.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.repo.UpdateStatus(ctx, booking.ID.String(), previous, next); err != nil {
		return nil, err
	}
	booking.Status = next

	logger.GetDefault().LogBookingStatusChanged(ctx, booking.ID.String(), string(previous), string(next), actor.UserID)
	s.invalidateCalendar(ctx, booking.HallOwnerID.String())
	s.notifyStatusChanged(ctx, booking)

	return &StatusChangeResponse{
		BookingID:      booking.ID.String(),
		BookingCode:    booking.BookingCode,
		PreviousStatus: previous,
		Status:         next,
	}, nil
}

func (s *service) DeleteDebugBooking(ctx context.Context, ownerID, bookingID string) error {
	if err := s.repo.DeleteForOwner(ctx, ownerID, bookingID); err != nil {
		return err
	}
	s.invalidateCalendar(ctx, ownerID)
	return nil
}

func (s *service) invalidateCalendar(ctx context.Context, ownerID string) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.DeletePattern(ctx, constants.BuildUnavailableDatesPattern(ownerID)); err != nil {
		logger.GetDefault().WarnWithContext(ctx, "Failed to invalidate availability cache", map[string]interface{}{
			"hall_owner_id": ownerID,
			"error":         err.Error(),
		})
	}
}
