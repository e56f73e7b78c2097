package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-gallery/config"
	"video-gallery/dto"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// DiagnosticsHandler reports configuration presence. Values never leave the process.
type DiagnosticsHandler struct {
	cfg *config.Config
	db  Pinger
	now func() time.Time
}

func NewDiagnosticsHandler(cfg *config.Config, db Pinger) *DiagnosticsHandler {
	return &DiagnosticsHandler{cfg: cfg, db: db, now: time.Now}
}

func (h *DiagnosticsHandler) Env(c *gin.Context) {
	c.JSON(http.StatusOK, dto.EnvCheckResponse{
		Message: "Environment variables check",
		EnvCheck: dto.EnvCheck{
			CloudinaryCloudName: h.cfg.Cloudinary.CloudName != "",
			CloudinaryAPIKey:    h.cfg.Cloudinary.APIKey != "",
			CloudinaryAPISecret: h.cfg.Cloudinary.APISecret != "",
			DatabaseURL:         h.cfg.Database.URL != "",
			ClerkPublishableKey: h.cfg.Clerk.PublishableKey != "",
			ClerkSecretKey:      h.cfg.Clerk.SecretKey != "",
		},
		Timestamp: h.now().UTC(),
	})
}

func (h *DiagnosticsHandler) Database(c *gin.Context) {
	reachable := false
	if h.db != nil && h.cfg.Database.URL != "" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("database ping failed")
		} else {
			reachable = true
		}
	}

	c.JSON(http.StatusOK, dto.DatabaseCheckResponse{
		Message:        "Database test endpoint",
		HasDatabaseURL: h.cfg.Database.URL != "",
		Reachable:      reachable,
		Timestamp:      h.now().UTC(),
	})
}

// UploadConfig handles GET /api/video-upload.
func (h *DiagnosticsHandler) UploadConfig(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UploadConfigResponse{
		Message: "Video upload API is running",
		Config: map[string]string{
			"cloud_name": h.cfg.Cloudinary.CloudName,
			"api_key":    mask(h.cfg.Cloudinary.APIKey),
			"api_secret": mask(h.cfg.Cloudinary.APISecret),
		},
		Timestamp: h.now().UTC(),
	})
}

func mask(secret string) string {
	if secret == "" {
		return "missing"
	}
	return "***"
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
