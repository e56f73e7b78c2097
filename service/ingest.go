package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"video-gallery/config"
	"video-gallery/constant"
	"video-gallery/dto"
	"video-gallery/entities"
	"video-gallery/pkg/cloudinary"
	"video-gallery/repository"
)

const uploadSuccessMessage = "Video uploaded successfully with compression applied"

type Provider interface {
	Upload(ctx context.Context, file io.Reader, recipe cloudinary.Recipe) (*cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}

type Archiver interface {
	Archive(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

type OrphanPublisher interface {
	PublishOrphan(ctx context.Context, msg dto.OrphanedAssetMessage) error
}

type IngestService interface {
	Ingest(ctx context.Context, req IngestRequest) (*dto.UploadResponse, error)
	Validator() Validator
}

// IngestDependencies wires the upload flow. Provider may be nil when the
// credentials are incomplete; Archiver, Publisher and Cache are optional.
type IngestDependencies struct {
	Repo      repository.VideoRepository
	Provider  Provider
	Archiver  Archiver
	Publisher OrphanPublisher
	Cache     ListingCache
}

type ingestService struct {
	deps            IngestDependencies
	validator       Validator
	recipe          cloudinary.Recipe
	timeout         time.Duration
	previewDuration int
}

func NewIngestService(deps IngestDependencies, cfg *config.Config) IngestService {
	timeout := cfg.Upload.Timeout
	if timeout <= 0 {
		timeout = constant.DefaultUploadTimeout
	}
	previewDuration := cfg.Upload.PreviewDuration
	if previewDuration <= 0 {
		previewDuration = constant.DefaultPreviewDuration
	}

	return &ingestService{
		deps:            deps,
		validator:       NewValidator(cfg.Cloudinary, deps.Provider != nil, cfg.Upload.MaxFileSize),
		recipe:          cloudinary.DefaultRecipe(),
		timeout:         timeout,
		previewDuration: previewDuration,
	}
}

func (s *ingestService) Validator() Validator {
	return s.validator
}

func (s *ingestService) Ingest(ctx context.Context, req IngestRequest) (*dto.UploadResponse, error) {
	upload, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().
		Str("user_id", upload.UserID).
		Str("file_name", upload.File.Filename).
		Int64("file_size", upload.File.Size).
		Logger()
	ctx = logger.WithContext(ctx)

	result, err := s.upload(ctx, upload)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("public_id", result.PublicID).Int64("bytes", result.Bytes).Msg("provider upload completed")

	urls := ResolveVariants(s.recipe.Variants, result.Eager)
	compression := Compress(upload.OriginalSize, result.Bytes)

	video := &entities.Video{
		Title:              upload.Title,
		Description:        upload.Description,
		PublicID:           result.PublicID,
		OriginalSize:       upload.OriginalSize,
		CompressedSize:     result.Bytes,
		UserID:             upload.UserID,
		HighQualityURL:     urls[constant.VariantHighQuality],
		AIPreviewURL:       urls[constant.VariantPreview],
		ThumbnailURL:       urls[constant.VariantThumbnail],
		OriginalQualityURL: nonEmpty(result.SecureURL),
		KeyMoments:         pq.StringArray{},
		CompressionRatio:   compression.Ratio,
		PreviewDuration:    s.previewDuration,
		ArchiveKey:         s.archive(ctx, upload, result.PublicID),
	}
	if result.Duration != nil {
		video.Duration = *result.Duration
	}

	if err := s.deps.Repo.CreateVideo(ctx, video); err != nil {
		return nil, s.persistenceFailed(ctx, video, err)
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Invalidate(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate listing cache")
		}
	}

	logger.Info().
		Str("video_id", video.ID.String()).
		Int("compression_percentage", compression.Percentage).
		Bool("size_increased", compression.SizeIncreased).
		Msg("video stored")

	return &dto.UploadResponse{
		Success:               true,
		Video:                 video,
		CompressionPercentage: compression.Percentage,
		SizeIncreased:         compression.SizeIncreased,
		OriginalSizeBytes:     upload.OriginalSize,
		CompressedSizeBytes:   result.Bytes,
		Message:               uploadSuccessMessage,
		CompressionInfo: dto.CompressionInfo{
			OriginalSizeMB:   compression.OriginalMB,
			CompressedSizeMB: compression.CompressedMB,
			SavingsMB:        compression.SavingsMB,
		},
	}, nil
}

type uploadOutcome struct {
	result *cloudinary.UploadResult
	err    error
}

// upload races the provider call against the configured timeout. The call
// runs detached from the request so an upload the provider accepts after the
// deadline still reports its public id, which is then handed to cleanup.
func (s *ingestService) upload(ctx context.Context, upload *ValidatedUpload) (*cloudinary.UploadResult, error) {
	file, err := upload.File.Open()
	if err != nil {
		return nil, wrap(ErrMissingFile, err)
	}

	providerCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), s.timeout+constant.AbandonedUploadGrace)
	done := make(chan uploadOutcome)
	abandoned := make(chan struct{})
	go func() {
		defer stop()
		defer file.Close()
		res, err := s.deps.Provider.Upload(providerCtx, file, s.recipe)
		select {
		case done <- uploadOutcome{result: res, err: err}:
		case <-abandoned:
			if err != nil || res == nil || res.PublicID == "" {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("abandoned provider upload did not complete")
				return
			}
			s.orphaned(context.WithoutCancel(ctx), dto.OrphanedAssetMessage{
				PublicID: res.PublicID,
				UserID:   upload.UserID,
				Reason:   constant.CleanupReasonUploadAbandoned,
			})
		}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) {
				return nil, wrap(ErrProviderTimeout, out.err)
			}
			zerolog.Ctx(ctx).Error().Err(out.err).Msg("provider upload failed")
			return nil, wrap(ErrProviderFailure, out.err)
		}
		if out.result == nil || out.result.PublicID == "" {
			return nil, wrap(ErrProviderFailure, errors.New("provider returned no public id"))
		}
		return out.result, nil
	case <-timer.C:
		close(abandoned)
		zerolog.Ctx(ctx).Warn().Dur("timeout", s.timeout).Msg("provider upload timed out")
		return nil, wrap(ErrProviderTimeout, context.DeadlineExceeded)
	case <-ctx.Done():
		close(abandoned)
		zerolog.Ctx(ctx).Warn().Err(ctx.Err()).Msg("client went away during provider upload")
		return nil, wrap(ErrProviderFailure, ctx.Err())
	}
}

// archive copies the original bytes to object storage. It never fails the
// upload; a nil key means nothing was archived.
func (s *ingestService) archive(ctx context.Context, upload *ValidatedUpload, publicID string) *string {
	if s.deps.Archiver == nil {
		return nil
	}

	file, err := upload.File.Open()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to reopen upload for archiving")
		return nil
	}
	defer file.Close()

	key := ArchiveKey(upload.UserID, publicID, upload.File.Filename)
	if err := s.deps.Archiver.Archive(ctx, key, file, upload.File.Size, upload.ContentType); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to archive original")
		return nil
	}
	return &key
}

func (s *ingestService) persistenceFailed(ctx context.Context, video *entities.Video, err error) error {
	sentinel, reason := ErrPersistenceRejected, constant.CleanupReasonPersistenceRejected
	if errors.Is(err, repository.ErrStoreUnreachable) {
		sentinel, reason = ErrPersistenceUnreachable, constant.CleanupReasonPersistenceUnreachable
	}

	zerolog.Ctx(ctx).Error().Err(err).Str("public_id", video.PublicID).Str("kind", string(sentinel.Kind)).Msg("failed to save video")

	msg := dto.OrphanedAssetMessage{PublicID: video.PublicID, UserID: video.UserID, Reason: reason}
	if video.ArchiveKey != nil {
		msg.ArchiveKey = *video.ArchiveKey
	}
	// the request may already be cancelled; the cleanup message must still go out
	s.orphaned(context.WithoutCancel(ctx), msg)
	return wrap(sentinel, err)
}

func (s *ingestService) orphaned(ctx context.Context, msg dto.OrphanedAssetMessage) {
	logger := zerolog.Ctx(ctx).With().Str("public_id", msg.PublicID).Str("reason", string(msg.Reason)).Logger()
	if s.deps.Publisher == nil {
		logger.Warn().Str("archive_key", msg.ArchiveKey).Msg("orphaned provider asset left in place")
		return
	}

	msg.ResourceType = s.recipe.ResourceType
	msg.FailedAt = time.Now().UTC()
	if err := s.deps.Publisher.PublishOrphan(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("failed to publish orphaned asset")
		return
	}
	logger.Info().Msg("orphaned asset queued for cleanup")
}

// ArchiveKey is originals/<userId>/<publicId><ext>. The public id already
// carries the upload folder.
func ArchiveKey(userID, publicID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s%s", constant.ArchivePrefix, userID, publicID, filepath.Ext(fileName))
}
