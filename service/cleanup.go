package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"video-gallery/constant"
	"video-gallery/dto"
)

type CleanupService interface {
	Cleanup(ctx context.Context, msg dto.OrphanedAssetMessage) error
}

type ArchiveRemover interface {
	Remove(ctx context.Context, key string) error
}

type cleanupService struct {
	provider Provider
	archive  ArchiveRemover
}

// NewCleanupService accepts a nil archive when no originals are kept.
func NewCleanupService(provider Provider, archive ArchiveRemover) CleanupService {
	return &cleanupService{provider: provider, archive: archive}
}

// Cleanup destroys a provider asset that has no matching videos row. Errors
// joined with ErrNonRetryable should go straight to the dead-letter queue.
func (s *cleanupService) Cleanup(ctx context.Context, msg dto.OrphanedAssetMessage) error {
	if msg.PublicID == "" {
		return errors.Join(ErrNonRetryable, errors.New("orphaned asset message has no public id"))
	}
	if s.provider == nil {
		return errors.Join(ErrNonRetryable, ErrMisconfigured)
	}

	resourceType := msg.ResourceType
	if resourceType == "" {
		resourceType = constant.ResourceTypeVideo
	}

	logger := zerolog.Ctx(ctx).With().
		Str("public_id", msg.PublicID).
		Str("reason", string(msg.Reason)).
		Logger()

	if err := s.provider.Destroy(ctx, msg.PublicID, resourceType); err != nil {
		logger.Warn().Err(err).Msg("failed to destroy orphaned asset")
		return err
	}

	if msg.ArchiveKey != "" {
		if s.archive == nil {
			logger.Warn().Str("archive_key", msg.ArchiveKey).Msg("archived original left in place")
		} else if err := s.archive.Remove(ctx, msg.ArchiveKey); err != nil {
			logger.Warn().Err(err).Str("archive_key", msg.ArchiveKey).Msg("failed to remove archived original")
			return err
		}
	}

	logger.Info().Msg("orphaned asset destroyed")
	return nil
}
