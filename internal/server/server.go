package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shortlink"
)

const mediaURLPrefix = "/media"

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New wires services, middleware and routes. redisClient may be nil, which disables rate limiting.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	images, err := newImageStore(cfg)
	if err != nil {
		return nil, err
	}

	links, err := service.NewShortLinkService(db, cfg.ShortLinkCacheSize, cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	auth := service.NewAuthService(db, cfg.JWTSecret)

	svc := &api.Services{
		Auth:                auth,
		Users:               service.NewUserService(db, service.NewAvatarService(images)),
		Catalog:             service.NewCatalogService(db),
		Recipes:             service.NewRecipeService(db, service.NewImageService(images), shortlink.NewGenerator(), links),
		Memberships:         service.NewMembershipService(db),
		Subscriptions:       service.NewSubscriptionService(db),
		ShoppingList:        service.NewShoppingListService(db),
		ShortLinks:          links,
		Policy:              service.OwnerOrStaff{},
		CreationLimiter:     middleware.NewRecipeCreationRateLimiter(redisClient),
		ModificationLimiter: middleware.NewRecipeModificationRateLimiter(redisClient),
	}

	router := gin.New()
	router.Use(gin.Logger(), middleware.ErrorHandler(), middleware.CORS(cfg.CORSOrigins))
	if cfg.S3Bucket == "" {
		router.Static(mediaURLPrefix, mediaRoot(cfg))
	}

	api.RegisterRoutes(router, svc, func(ctx context.Context) error {
		if err := database.HealthCheck(ctx, db); err != nil {
			return err
		}
		if redisClient != nil {
			return redisClient.Ping(ctx).Err()
		}
		return nil
	})

	return &Server{
		cfg:    cfg,
		router: router,
		db:     db,
		redis:  redisClient,
	}, nil
}

// newImageStore picks S3 when a bucket is configured and the local media root otherwise
func newImageStore(cfg *config.Config) (service.ImageStore, error) {
	if cfg.S3Bucket == "" {
		log.Printf("[Server] storing recipe images under %s", mediaRoot(cfg))
		return service.NewDiskImageStore(mediaRoot(cfg), mediaURLPrefix), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure image storage: %w", err)
	}
	log.Printf("[Server] storing recipe images in s3://%s", s3Cfg.BucketName)
	return service.NewS3ImageStore(s3Cfg), nil
}

func mediaRoot(cfg *config.Config) string {
	if cfg.MediaRoot == "" {
		return "media"
	}
	return cfg.MediaRoot
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and blocks until the server stops
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the stores behind it
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.http != nil {
		errs = append(errs, s.http.Shutdown(ctx))
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if sqlDB, err := s.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
