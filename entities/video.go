package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Video is the only persisted entity. Rows are written once by the upload
// flow and read back by the gallery; ownership never changes after creation.
type Video struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title              string         `json:"title" gorm:"type:varchar(255);not null"`
	Description        *string        `json:"description" gorm:"type:text"`
	PublicID           string         `json:"publicId" gorm:"column:public_id;type:varchar(500);not null;uniqueIndex:idx_videos_public_id"`
	OriginalSize       int64          `json:"originalSize" gorm:"type:bigint;not null"`
	CompressedSize     int64          `json:"compressedSize" gorm:"type:bigint;not null"`
	Duration           float64        `json:"duration" gorm:"type:double precision;not null"`
	UserID             string         `json:"userId" gorm:"column:user_id;type:varchar(255);not null;index:idx_videos_user_id"`
	AIPreviewURL       *string        `json:"aiPreviewUrl" gorm:"column:ai_preview_url;type:text"`
	ThumbnailURL       *string        `json:"thumbnailUrl" gorm:"column:thumbnail_url;type:text"`
	HighQualityURL     *string        `json:"highQualityUrl" gorm:"column:high_quality_url;type:text"`
	OriginalQualityURL *string        `json:"originalQualityUrl" gorm:"column:original_quality_url;type:text"`
	KeyMoments         pq.StringArray `json:"keyMoments" gorm:"type:text[];not null"`
	CompressionRatio   float64        `json:"compressionRatio" gorm:"type:double precision;not null"`
	PreviewDuration    int            `json:"previewDuration" gorm:"type:integer;not null"`
	ArchiveKey         *string        `json:"archiveKey" gorm:"column:archive_key;type:varchar(1024)"`
	CreatedAt          time.Time      `json:"createdAt" gorm:"type:timestamptz;not null;index:idx_videos_created_at"`
	UpdatedAt          time.Time      `json:"updatedAt" gorm:"type:timestamptz;not null"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.KeyMoments == nil {
		v.KeyMoments = pq.StringArray{}
	}
	return nil
}
