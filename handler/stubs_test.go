package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"video-gallery/config"
	"video-gallery/constant"
	"video-gallery/dto"
	"video-gallery/entities"
	"video-gallery/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubIngest struct {
	validator service.Validator
	got       *service.IngestRequest
	res       *dto.UploadResponse
	err       error
}

func (s *stubIngest) Ingest(ctx context.Context, req service.IngestRequest) (*dto.UploadResponse, error) {
	s.got = &req
	return s.res, s.err
}

func (s *stubIngest) Validator() service.Validator {
	return s.validator
}

type stubListing struct {
	videos []*entities.Video
	err    error
}

func (s *stubListing) List(ctx context.Context) ([]*entities.Video, error) {
	return s.videos, s.err
}

func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(constant.ContextUserIDKey, userID)
		}
		c.Next()
	}
}

var testCredentials = config.Cloudinary{CloudName: "demo", APIKey: "key", APISecret: "secret"}
