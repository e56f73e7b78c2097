package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-gallery/constant"
	"video-gallery/middleware"
	"video-gallery/service"
)

const multipartMemory = 32 << 20

type VideoHandler struct {
	ingest  service.IngestService
	listing service.ListingService
}

func NewVideoHandler(ingest service.IngestService, listing service.ListingService) *VideoHandler {
	return &VideoHandler{ingest: ingest, listing: listing}
}

// Upload handles POST /api/video-upload.
func (h *VideoHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	req := service.IngestRequest{UserID: middleware.UserID(c)}

	// refuse before the body is read
	if err := h.ingest.Validator().Preflight(req.UserID); err != nil {
		respondError(c, err)
		return
	}

	limit := h.ingest.Validator().MaxFileSize() + constant.MultipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	err := c.Request.ParseMultipartForm(multipartMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		req.Oversized = true
	case err != nil:
		zerolog.Ctx(ctx).Debug().Err(err).Msg("request body is not a usable multipart form")
	default:
		fillRequest(&req, c.Request.MultipartForm)
	}

	res, err := h.ingest.Ingest(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func fillRequest(req *service.IngestRequest, form *multipart.Form) {
	if form == nil {
		return
	}
	if files := form.File["file"]; len(files) > 0 {
		req.File = files[0]
	}
	req.Title = firstValue(form, "title")
	req.Description = firstValue(form, "description")
	req.OriginalSize = firstValue(form, "originalSize")
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// List handles GET /api/videos.
func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.listing.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}
