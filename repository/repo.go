package repository

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"video-gallery/entities"
)

type VideoRepository interface {
	CreateVideo(ctx context.Context, video *entities.Video) error
	ListVideos(ctx context.Context) ([]*entities.Video, error)
	Ping(ctx context.Context) error
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB, logLevel logger.LogLevel) (VideoRepository, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logLevel),
		},
	)
	if err != nil {
		return nil, err
	}
	return &repo{
		db: gormDB,
	}, nil
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) CreateVideo(ctx context.Context, video *entities.Video) error {
	err := r.GetDB().WithContext(ctx).Create(video).Error
	if err != nil {
		return classify(err)
	}

	return nil
}

// ListVideos returns every row, newest first. Ownership filtering is left to
// the routes in front of it.
func (r *repo) ListVideos(ctx context.Context) ([]*entities.Video, error) {
	videos := make([]*entities.Video, 0)
	err := r.GetDB().WithContext(ctx).Order("created_at DESC").Find(&videos).Error
	if err != nil {
		return nil, classify(err)
	}
	return videos, nil
}

func (r *repo) Ping(ctx context.Context) error {
	sqlDB, err := r.GetDB().DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}
