package resources

import (
	"context"
	"fmt"
	"time"

	"hallbook/internal/shared/constants"
	"hallbook/internal/shared/utils/collation"
	"hallbook/internal/users"
	"hallbook/pkg/cache"
	"hallbook/pkg/retry"
)

// OwnerDirectory resolves hall owner accounts.
type OwnerDirectory interface {
	GetHallOwner(ctx context.Context, id string) (*users.User, error)
}

type Service interface {
	GetResource(ctx context.Context, id string) (*Resource, error)
	ListPublic(ctx context.Context, ownerID string) (*PublicResourcesResponse, error)
}

type service struct {
	repo   Repository
	owners OwnerDirectory
	cache  cache.Service
	ttl    time.Duration
	policy retry.Policy
}

// NewService wires the resource catalog. cacheService may be nil.
func NewService(repo Repository, owners OwnerDirectory, cacheService cache.Service, policy retry.Policy) Service {
	return &service{
		repo:   repo,
		owners: owners,
		cache:  cacheService,
		ttl:    constants.TTL_RESOURCES_PUBLIC,
		policy: policy,
	}
}

func (s *service) GetResource(ctx context.Context, id string) (*Resource, error) {
	return retry.Do(ctx, s.policy, func(ctx context.Context) (*Resource, error) {
		return s.repo.GetByID(ctx, id)
	}, ErrResourceNotFound)
}

func (s *service) ListPublic(ctx context.Context, ownerID string) (*PublicResourcesResponse, error) {
	if s.cache == nil {
		return s.loadPublic(ctx, ownerID)
	}

	var out PublicResourcesResponse
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_RESOURCES_PUBLIC+ownerID, s.ttl, func() (interface{}, error) {
		return s.loadPublic(ctx, ownerID)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) loadPublic(ctx context.Context, ownerID string) (*PublicResourcesResponse, error) {
	owner, err := s.owners.GetHallOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	list, err := retry.Do(ctx, s.policy, func(ctx context.Context) ([]Resource, error) {
		return s.repo.ListByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	out := &PublicResourcesResponse{
		Resources: make([]PublicResource, 0, len(list)),
		HallOwner: toHallOwnerInfo(owner),
	}
	for _, r := range list {
		out.Resources = append(out.Resources, toPublicResource(r))
	}
	collation.SortStable(out.Resources, func(r PublicResource) string { return r.Name })

	return out, nil
}
