package notifications

import (
	"context"
	"fmt"

	"hallbook/pkg/logger"
	"hallbook/pkg/retry"

	"github.com/google/uuid"
)

const listLimit = 50

type Service interface {
	CreateNotification(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID string) (*ListResponse, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) (int64, error)
	Subscribe(ctx context.Context, userID string) (<-chan Notification, func(), error)
}

type service struct {
	repo   Repository
	broker Broker
	policy retry.Policy
}

func NewService(repo Repository, broker Broker, policy retry.Policy) Service {
	if broker == nil {
		broker = NewLocalHub()
	}
	return &service{repo: repo, broker: broker, policy: policy}
}

// CreateNotification stores n and pushes it to any live subscribers of its user.
func (s *service) CreateNotification(ctx context.Context, n *Notification) error {
	if n.UserID == uuid.Nil {
		return fmt.Errorf("notification has no recipient")
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if err := s.broker.Publish(ctx, n); err != nil {
		logger.GetDefault().WarnWithContext(ctx, "Failed to publish notification", map[string]interface{}{
			"notification_id": n.ID.String(),
			"user_id":         n.UserID.String(),
			"error":           err.Error(),
		})
	}
	return nil
}

func (s *service) List(ctx context.Context, userID string) (*ListResponse, error) {
	list, err := retry.Do(ctx, s.policy, func(ctx context.Context) ([]Notification, error) {
		return s.repo.ListByUser(ctx, userID, listLimit)
	})
	if err != nil {
		return nil, err
	}
	unread, err := retry.Do(ctx, s.policy, func(ctx context.Context) (int64, error) {
		return s.repo.CountUnread(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Notification{}
	}
	return &ListResponse{Notifications: list, UnreadCount: unread}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *service) Clear(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteAll(ctx, userID)
}

func (s *service) Subscribe(ctx context.Context, userID string) (<-chan Notification, func(), error) {
	return s.broker.Subscribe(ctx, userID)
}
