package dto

import (
	"time"

	"video-gallery/constant"
	"video-gallery/entities"
)

// UploadResponse is the success body of the upload endpoint. When the provider
// output is not smaller than the declared original, SizeIncreased is set and
// CompressionPercentage holds the growth magnitude.
type UploadResponse struct {
	Success               bool            `json:"success"`
	Video                 *entities.Video `json:"video"`
	CompressionPercentage int             `json:"compressionPercentage"`
	SizeIncreased         bool            `json:"sizeIncreased"`
	OriginalSizeBytes     int64           `json:"originalSizeBytes"`
	CompressedSizeBytes   int64           `json:"compressedSizeBytes"`
	Message               string          `json:"message"`
	CompressionInfo       CompressionInfo `json:"compressionInfo"`
}

type CompressionInfo struct {
	OriginalSizeMB   string `json:"originalSizeMB"`
	CompressedSizeMB string `json:"compressedSizeMB"`
	SavingsMB        string `json:"savingsMB"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// OrphanedAssetMessage is published when the provider kept an upload that
// never made it into the videos table.
type OrphanedAssetMessage struct {
	PublicID     string                 `json:"publicId"`
	ResourceType string                 `json:"resourceType"`
	UserID       string                 `json:"userId"`
	Reason       constant.CleanupReason `json:"reason"`
	ArchiveKey   string                 `json:"archiveKey,omitempty"`
	FailedAt     time.Time              `json:"failedAt"`
}

type EnvCheck struct {
	CloudinaryCloudName bool `json:"cloudinary_cloud_name"`
	CloudinaryAPIKey    bool `json:"cloudinary_api_key"`
	CloudinaryAPISecret bool `json:"cloudinary_api_secret"`
	DatabaseURL         bool `json:"database_url"`
	ClerkPublishableKey bool `json:"clerk_publishable_key"`
	ClerkSecretKey      bool `json:"clerk_secret_key"`
}

type EnvCheckResponse struct {
	Message   string    `json:"message"`
	EnvCheck  EnvCheck  `json:"envCheck"`
	Timestamp time.Time `json:"timestamp"`
}

type DatabaseCheckResponse struct {
	Message        string    `json:"message"`
	HasDatabaseURL bool      `json:"hasDatabaseUrl"`
	Reachable      bool      `json:"reachable"`
	Timestamp      time.Time `json:"timestamp"`
}

type UploadConfigResponse struct {
	Message   string            `json:"message"`
	Config    map[string]string `json:"config"`
	Timestamp time.Time         `json:"timestamp"`
}
