package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/media"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	featureRepo := repository.NewFeatureRepository(pool, logger)

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, serving products without cache")
		} else {
			defer client.Close()
			productRepo = cache.NewProductCache(productRepo, client, cfg.Redis.ProductTTL, logger)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("product cache enabled")
		}
	}

	publisher, err := events.New(cfg.Events, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Image storage: S3 with local fallback
	fileStore := media.NewFileStore(cfg.Media.Dir, cfg.Media.BaseURL, logger)
	var s3Store media.Store
	if cfg.S3.Enabled {
		s3Store, err = media.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 store, falling back to local file system only")
			s3Store = nil
		}
	} else {
		logger.Info().Msg("using local file system for images (S3 disabled)")
	}
	images := media.NewFallbackStore(s3Store, fileStore, cfg.S3.Enabled, logger)

	gateway, err := payment.NewRedirectGateway(cfg.Payment, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %w", err)
	}

	validator := auth.NewValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	// Initialize services
	productService := service.NewProductService(productRepo, images, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	addressService := service.NewAddressService(addressRepo, logger)
	orderService := service.NewOrderService(
		orderRepo, addressRepo, productRepo, cartService,
		gateway, auth.ClaimsAuthority{}, publisher, logger,
	)
	featureService := service.NewFeatureService(featureRepo, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Products:  handler.NewProductHandler(productService, logger),
		Carts:     handler.NewCartHandler(cartService, logger),
		Addresses: handler.NewAddressHandler(addressService, logger),
		Orders:    handler.NewOrderHandler(orderService, logger),
		Features:  handler.NewFeatureHandler(featureService, logger),
	}, router.Options{
		AllowedOrigin: cfg.CORS.AllowedOrigin,
		Validator:     validator,
		MediaDir:      cfg.Media.Dir,
		Ping:          pool.Ping,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	return g.Wait()
}
