package handler

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"video-gallery/config"
	"video-gallery/constant"
	"video-gallery/entities"
	"video-gallery/middleware"
	"video-gallery/pkg/cloudinary"
	"video-gallery/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	thumbnailTransformation = "w_400,h_225,c_fill,g_auto,f_jpg,q_auto"
	previewTransformation   = "w_400,h_225,q_auto:low"
	fullTransformation      = "w_1920,h_1080"
	visibleKeyMoments       = 3
)

func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// VideoCard is everything one gallery card shows, already formatted.
type VideoCard struct {
	ID                    string
	Title                 string
	Description           string
	ThumbnailURL          string
	PreviewURL            string
	HasAIPreview          bool
	Duration              string
	OriginalSize          string
	CompressedSize        string
	Uploaded              string
	CompressionPercentage int
	CompressionRatio      string
	PreviewDuration       int
	KeyMoments            []string
	MoreKeyMoments        int
	DownloadOriginalURL   string
	DownloadCompressedURL string
	DownloadName          string
}

type GalleryHandler struct {
	listing   service.ListingService
	cloudName string
	clerk     config.Clerk
	maxSize   int64
	now       func() time.Time
}

func NewGalleryHandler(listing service.ListingService, cfg *config.Config, maxSize int64) *GalleryHandler {
	return &GalleryHandler{
		listing:   listing,
		cloudName: cfg.Cloudinary.CloudName,
		clerk:     cfg.Clerk,
		maxSize:   maxSize,
		now:       time.Now,
	}
}

func (h *GalleryHandler) Root(c *gin.Context) {
	if middleware.UserID(c) != "" {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	c.Redirect(http.StatusFound, "/sign-up")
}

func (h *GalleryHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.withClerk(gin.H{
		"Placeholders": make([]struct{}, constant.GalleryPlaceholderCount),
	}))
}

// Cards renders the gallery grid fragment the home page swaps in.
func (h *GalleryHandler) Cards(c *gin.Context) {
	videos, err := h.listing.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to fetch videos")
		return
	}

	now := h.now()
	cards := make([]VideoCard, 0, len(videos))
	for _, v := range videos {
		cards = append(cards, h.card(v, now))
	}
	c.HTML(http.StatusOK, "cards.html", gin.H{
		"Cards": cards,
	})
}

func (h *GalleryHandler) UploadPage(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.html", h.withClerk(gin.H{
		"MaxFileSize":      h.maxSize,
		"MaxFileSizeLabel": humanize.IBytes(uint64(h.maxSize)),
	}))
}

func (h *GalleryHandler) SignIn(c *gin.Context) {
	h.authPage(c, h.clerk.SignInURL, "sign-in")
}

func (h *GalleryHandler) SignUp(c *gin.Context) {
	h.authPage(c, h.clerk.SignUpURL, "sign-up")
}

// authPage sends signed-in users home, hands off to a hosted Clerk page when
// one is configured, and otherwise mounts the Clerk component locally.
func (h *GalleryHandler) authPage(c *gin.Context, hostedURL, mode string) {
	if middleware.UserID(c) != "" {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	if strings.HasPrefix(hostedURL, "https://") || strings.HasPrefix(hostedURL, "http://") {
		c.Redirect(http.StatusFound, hostedURL)
		return
	}

	scriptURL, err := clerkScriptURL(h.clerk.PublishableKey)
	if err != nil {
		c.String(http.StatusInternalServerError, "Authentication is not configured")
		return
	}
	c.HTML(http.StatusOK, "auth.html", gin.H{
		"Mode":           mode,
		"PublishableKey": h.clerk.PublishableKey,
		"ScriptURL":      scriptURL,
	})
}

// withClerk adds clerk-js to a signed-in page. The script keeps the short-lived
// __session cookie refreshed while the page stays open.
func (h *GalleryHandler) withClerk(data gin.H) gin.H {
	scriptURL, err := clerkScriptURL(h.clerk.PublishableKey)
	if err != nil {
		return data
	}
	data["ClerkPublishableKey"] = h.clerk.PublishableKey
	data["ClerkScriptURL"] = scriptURL
	return data
}

func clerkScriptURL(publishableKey string) (string, error) {
	frontendAPI, err := clerkFrontendAPI(publishableKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/npm/@clerk/clerk-js@5/dist/clerk.browser.js", frontendAPI), nil
}

// clerkFrontendAPI decodes the frontend API host embedded in a publishable key.
func clerkFrontendAPI(publishableKey string) (string, error) {
	encoded := publishableKey
	for _, prefix := range []string{"pk_test_", "pk_live_"} {
		encoded = strings.TrimPrefix(encoded, prefix)
	}
	if encoded == "" || encoded == publishableKey {
		return "", fmt.Errorf("malformed clerk publishable key")
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return "", err
	}
	host := strings.TrimSuffix(string(raw), "$")
	if host == "" {
		return "", fmt.Errorf("malformed clerk publishable key")
	}
	return host, nil
}

func (h *GalleryHandler) card(v *entities.Video, now time.Time) VideoCard {
	card := VideoCard{
		ID:              v.ID.String(),
		Title:           v.Title,
		ThumbnailURL:    h.deliveryURL(thumbnailTransformation, v.PublicID, "jpg"),
		PreviewURL:      h.deliveryURL(previewTransformation, v.PublicID, ""),
		Duration:        formatDuration(v.Duration),
		OriginalSize:    humanize.Bytes(uint64(max(v.OriginalSize, 0))),
		CompressedSize:  humanize.Bytes(uint64(max(v.CompressedSize, 0))),
		Uploaded:        humanize.RelTime(v.CreatedAt, now, "ago", "from now"),
		PreviewDuration: v.PreviewDuration,
		DownloadName:    v.Title + ".mp4",
	}
	if v.Description != nil {
		card.Description = *v.Description
	}
	if v.ThumbnailURL != nil {
		card.ThumbnailURL = *v.ThumbnailURL
	}
	if v.AIPreviewURL != nil {
		card.PreviewURL = *v.AIPreviewURL
		card.HasAIPreview = true
	}
	if v.OriginalSize > 0 {
		card.CompressionPercentage = int(math.Round((1 - float64(v.CompressedSize)/float64(v.OriginalSize)) * 100))
	}
	if v.CompressionRatio != 0 {
		card.CompressionRatio = fmt.Sprintf("%.1f%%", v.CompressionRatio*100)
	}

	card.KeyMoments = v.KeyMoments
	if len(v.KeyMoments) > visibleKeyMoments {
		card.KeyMoments = v.KeyMoments[:visibleKeyMoments]
		card.MoreKeyMoments = len(v.KeyMoments) - visibleKeyMoments
	}

	card.DownloadOriginalURL = h.deliveryURL(fullTransformation, v.PublicID, "")
	if v.OriginalQualityURL != nil {
		card.DownloadOriginalURL = *v.OriginalQualityURL
	}
	if v.HighQualityURL != nil {
		card.DownloadCompressedURL = *v.HighQualityURL
	}
	return card
}

func (h *GalleryHandler) deliveryURL(transformation, publicID, format string) string {
	return cloudinary.DeliveryURL(h.cloudName, constant.ResourceTypeVideo, transformation, publicID, format)
}

// formatDuration renders whole seconds as m:ss.
func formatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
