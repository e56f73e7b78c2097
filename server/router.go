package server

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-gallery/handler"
	"video-gallery/middleware"
)

type Handlers struct {
	Video       *handler.VideoHandler
	Gallery     *handler.GalleryHandler
	Diagnostics *handler.DiagnosticsHandler
}

func NewRouter(logger zerolog.Logger, verifier *middleware.Verifier, templates *template.Template, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.Authenticate(verifier))
	r.SetHTMLTemplate(templates)

	r.GET("/health", handler.Health)

	r.GET("/", h.Gallery.Root)
	r.GET("/sign-in", h.Gallery.SignIn)
	r.GET("/sign-up", h.Gallery.SignUp)

	pages := r.Group("/", middleware.RequireUser("/sign-up"))
	pages.GET("/home", h.Gallery.Home)
	pages.GET("/home/cards", h.Gallery.Cards)
	pages.GET("/video-upload", h.Gallery.UploadPage)

	api := r.Group("/api")
	api.GET("/videos", h.Video.List)
	api.GET("/test-env", h.Diagnostics.Env)
	// the upload endpoint classifies anonymous callers itself
	api.POST("/video-upload", h.Video.Upload)

	protected := api.Group("/", middleware.RequireAPIUser())
	protected.GET("/video-upload", h.Diagnostics.UploadConfig)
	protected.GET("/test-db", h.Diagnostics.Database)

	return r
}
