package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"video-gallery/entities"
	"video-gallery/repository"
)

const listingFailedMessage = "Error fetching videos"

// ListingCache holds the full ordered listing. A miss is (nil, false, nil).
type ListingCache interface {
	Get(ctx context.Context) ([]*entities.Video, bool, error)
	Set(ctx context.Context, videos []*entities.Video) error
	Invalidate(ctx context.Context) error
}

type ListingService interface {
	List(ctx context.Context) ([]*entities.Video, error)
}

type listingService struct {
	repo  repository.VideoRepository
	cache ListingCache
}

func NewListingService(repo repository.VideoRepository, cache ListingCache) ListingService {
	return &listingService{repo: repo, cache: cache}
}

func (s *listingService) List(ctx context.Context) ([]*entities.Video, error) {
	if s.cache != nil {
		videos, hit, err := s.cache.Get(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("listing cache read failed")
		}
		if hit {
			return videos, nil
		}
	}

	videos, err := s.repo.ListVideos(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list videos")
		return nil, withMessage(kindFor(err), listingFailedMessage, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, videos); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("listing cache write failed")
		}
	}
	return videos, nil
}

func kindFor(err error) *Error {
	if errors.Is(err, repository.ErrStoreUnreachable) {
		return ErrPersistenceUnreachable
	}
	return ErrPersistenceRejected
}
