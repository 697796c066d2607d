package pricing

import (
	"context"
	"fmt"

	"hallbook/internal/shared/constants"
	"hallbook/internal/shared/utils/collation"
	"hallbook/internal/users"
	"hallbook/pkg/cache"
	"hallbook/pkg/retry"
)

type OwnerDirectory interface {
	GetHallOwner(ctx context.Context, id string) (*users.User, error)
}

type Service interface {
	FindRule(ctx context.Context, ownerID, resourceID string) (*Rule, error)
	ListPublic(ctx context.Context, ownerID string) ([]PublicPricing, error)
}

type service struct {
	repo   Repository
	owners OwnerDirectory
	cache  cache.Service
	policy retry.Policy
}

func NewService(repo Repository, owners OwnerDirectory, cacheService cache.Service, policy retry.Policy) Service {
	return &service{repo: repo, owners: owners, cache: cacheService, policy: policy}
}

func (s *service) FindRule(ctx context.Context, ownerID, resourceID string) (*Rule, error) {
	return retry.Do(ctx, s.policy, func(ctx context.Context) (*Rule, error) {
		return s.repo.FindRule(ctx, ownerID, resourceID)
	})
}

func (s *service) ListPublic(ctx context.Context, ownerID string) ([]PublicPricing, error) {
	if s.cache == nil {
		return s.loadPublic(ctx, ownerID)
	}

	var out []PublicPricing
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_PRICING_PUBLIC+ownerID, constants.TTL_PRICING_PUBLIC, func() (interface{}, error) {
		return s.loadPublic(ctx, ownerID)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) loadPublic(ctx context.Context, ownerID string) ([]PublicPricing, error) {
	if _, err := s.owners.GetHallOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	rules, err := retry.Do(ctx, s.policy, func(ctx context.Context) ([]Rule, error) {
		return s.repo.ListByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}

	out := make([]PublicPricing, 0, len(rules))
	for _, r := range rules {
		out = append(out, toPublicPricing(r))
	}
	collation.SortStable(out, func(p PublicPricing) string { return p.ResourceName })

	return out, nil
}
