package constant

import "time"

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

const (
	VideoMediaTypePrefix = "video/"
	ResourceTypeVideo    = "video"
	UploadFolder         = "video-uploads"

	DefaultMaxFileSize     int64 = 1 << 30
	DefaultUploadTimeout         = 120 * time.Second
	DefaultPreviewDuration       = 15
	DefaultListingCacheTTL       = 60 * time.Second

	// how long a provider upload may keep running after the client got its timeout
	AbandonedUploadGrace = 10 * time.Minute

	// multipart framing and the text fields on top of the file itself
	MultipartOverhead int64 = 10 << 20

	GalleryPlaceholderCount = 6

	ListingCacheKey = "videos:all"
	ArchivePrefix   = "originals"
)

type Variant string

const (
	VariantHighQuality Variant = "high_quality"
	VariantPreview     Variant = "preview"
	VariantThumbnail   Variant = "thumbnail"
)

type CleanupReason string

const (
	CleanupReasonPersistenceUnreachable CleanupReason = "persistence_unreachable"
	CleanupReasonPersistenceRejected    CleanupReason = "persistence_rejected"
	CleanupReasonUploadAbandoned        CleanupReason = "upload_abandoned"
)

const (
	ContextUserIDKey = "user_id"
	SessionCookie    = "__session"
)
