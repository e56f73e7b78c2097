package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
	"video-gallery/config"
	"video-gallery/constant"
	"video-gallery/handler"
	"video-gallery/middleware"
	"video-gallery/migrations"
	"video-gallery/pkg/archive"
	"video-gallery/pkg/cache"
	"video-gallery/pkg/cloudinary"
	"video-gallery/pkg/rabbitmq"
	"video-gallery/repository"
	"video-gallery/service"
)

const shutdownTimeout = 15 * time.Second

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := zerolog.Ctx(ctx)
	isProduction := cfg.App.Environment == constant.EnvironmentProduction.String()
	log.Info().Str("env", cfg.App.Environment).Bool("isProduction", isProduction).Send()
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	defer func() {
		if err := cfg.DB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database pool")
		}
	}()

	if err := config.ConnectDatabase(ctx, cfg.DB); err != nil {
		log.Error().Err(err).Msg("database unreachable at startup")
	} else if cfg.Database.AutoMigrate {
		if err := migrations.Run(ctx, cfg.DB, migrations.CommandUp); err != nil {
			log.Error().Err(err).Msg("auto migration failed")
			return
		}
	}

	gormLevel := gormlogger.Warn
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		gormLevel = gormlogger.Info
	}
	repo, err := repository.NewRepo(cfg.DB, gormLevel)
	if err != nil {
		log.Error().Err(err).Msg("NewRepo")
		return
	}

	var provider service.Provider
	if cfg.Cloudinary.Complete() {
		client, err := cloudinary.NewClient(cfg.Cloudinary)
		if err != nil {
			log.Error().Err(err).Msg("failed to create cloudinary client")
		} else {
			provider = client
		}
	} else {
		log.Warn().Msg("cloudinary credentials incomplete, uploads are disabled")
	}

	var listingCache service.ListingCache
	redisClient, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis unavailable, listing cache disabled")
	} else if redisClient != nil {
		defer redisClient.Close()
		listingCache = cache.NewListing(redisClient, cfg.Redis.TTL)
	}

	var archiver service.Archiver
	var archiveRemover service.ArchiveRemover
	if cfg.Storage != nil {
		if err := config.EnsureBucket(ctx, cfg.Storage, cfg.MinIOBucket); err != nil {
			log.Error().Err(err).Str("bucket", cfg.MinIOBucket).Msg("archive bucket unavailable, archiving disabled")
		} else {
			store := archive.NewMinIO(cfg.Storage, cfg.MinIOBucket)
			archiver, archiveRemover = store, store
		}
	}

	var publisher service.OrphanPublisher
	if cfg.Queue != nil {
		topology := rabbitmq.CleanupTopology(cfg.Queue.ExchangeName, cfg.Queue.Kind)
		conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
		if err != nil {
			log.Error().Err(err).Msg("NewRabbitMQConn")
		} else {
			p, err := rabbitmq.NewPublisher(ctx, conn, topology)
			if err != nil {
				log.Error().Err(err).Msg("failed to create cleanup publisher")
			} else {
				defer p.Close()
				publisher = p
			}

			deps := handler.ConsumerDependencies{CleanupService: service.NewCleanupService(provider, archiveRemover)}
			cleanupConsumer := rabbitmq.NewConsumer(conn, topology, cfg.Server.Workers, handler.OrphanCleanupHandler)
			go func() {
				err := cleanupConsumer.Consume(ctx, deps)
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("cleanup consumer error")
				}
			}()
		}
	}

	ingestService := service.NewIngestService(service.IngestDependencies{
		Repo:      repo,
		Provider:  provider,
		Archiver:  archiver,
		Publisher: publisher,
		Cache:     listingCache,
	}, cfg)
	listingService := service.NewListingService(repo, listingCache)

	verifier, err := middleware.NewVerifier(cfg.Clerk)
	if err != nil {
		log.Error().Err(err).Msg("invalid clerk jwt key")
		return
	}
	templates, err := handler.Templates()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse templates")
		return
	}

	r := NewRouter(*log, verifier, templates, Handlers{
		Video:       handler.NewVideoHandler(ingestService, listingService),
		Gallery:     handler.NewGalleryHandler(listingService, cfg, ingestService.Validator().MaxFileSize()),
		Diagnostics: handler.NewDiagnosticsHandler(cfg, repo),
	})

	srv := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("env", cfg.App.Environment).Str("addr", srv.Addr).Msg("start http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Str("env", cfg.App.Environment).Msg(err.Error())
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	log.Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
