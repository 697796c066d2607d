package users

import (
	"context"
	"errors"

	"hallbook/pkg/retry"
)

// Service answers the owner directory questions other packages ask.
type Service struct {
	repo   Repository
	policy retry.Policy
}

func NewService(repo Repository, policy retry.Policy) *Service {
	return &Service{repo: repo, policy: policy}
}

// GetHallOwner returns the account only when it exists and carries the
// hall_owner role; anything else is ErrHallOwnerNotFound.
func (s *Service) GetHallOwner(ctx context.Context, id string) (*User, error) {
	user, err := retry.Do(ctx, s.policy, func(ctx context.Context) (*User, error) {
		return s.repo.GetByID(ctx, id)
	}, ErrUserNotFound)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrHallOwnerNotFound
		}
		return nil, err
	}

	if !user.IsHallOwner() {
		return nil, ErrHallOwnerNotFound
	}
	return user, nil
}
