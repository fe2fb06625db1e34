package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	adminapp "github.com/luxemart/storefront/internal/application/admin"
	cartapp "github.com/luxemart/storefront/internal/application/cart"
	catalogapp "github.com/luxemart/storefront/internal/application/catalog"
	checkoutapp "github.com/luxemart/storefront/internal/application/checkout"
	identityapp "github.com/luxemart/storefront/internal/application/identity"
	searchapp "github.com/luxemart/storefront/internal/application/search"
	vendorapp "github.com/luxemart/storefront/internal/application/vendor"
	"github.com/luxemart/storefront/internal/domain/cart"
	"github.com/luxemart/storefront/internal/infrastructure/auth"
	"github.com/luxemart/storefront/internal/infrastructure/cache"
	"github.com/luxemart/storefront/internal/infrastructure/config"
	"github.com/luxemart/storefront/internal/infrastructure/event"
	"github.com/luxemart/storefront/internal/infrastructure/geo"
	"github.com/luxemart/storefront/internal/infrastructure/logger"
	"github.com/luxemart/storefront/internal/infrastructure/payment"
	"github.com/luxemart/storefront/internal/infrastructure/persistence"
	"github.com/luxemart/storefront/internal/infrastructure/scheduler"
	"github.com/luxemart/storefront/internal/infrastructure/storage"
	"github.com/luxemart/storefront/internal/interfaces/http/handler"
	"github.com/luxemart/storefront/internal/interfaces/http/middleware"
	"github.com/luxemart/storefront/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	searchRepo := persistence.NewGormSearchRepository(db.DB)

	// Shared infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewRedisTokenBlacklist(redisClient)
	idempotencyStore := cache.NewRedisIdempotencyStoreWithClient(redisClient, "storefront:webhook")
	preferenceStore := cache.NewRedisPreferenceStore(redisClient)

	gateway, err := payment.NewPaystackAdapter(&payment.PaystackConfig{
		SecretKey:       cfg.Payment.SecretKey,
		BaseURL:         cfg.Payment.BaseURL,
		CallbackURL:     cfg.Payment.CallbackURL,
		DefaultCurrency: cfg.App.Currency,
	})
	if err != nil {
		log.Fatal("Failed to configure payment gateway", zap.Error(err))
	}

	var locator geo.Locator
	if cfg.Geo.Enabled {
		locator = geo.NewChainLocator(cfg.Geo.Timeout, log)
	}

	imageStorage := newImageStorage(cfg, log)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	authService := identityapp.NewAuthService(userRepo, adminRepo, vendorRepo, jwtService, tokenBlacklist, log)
	profileService := identityapp.NewProfileService(userRepo, adminRepo, vendorRepo)
	addressService := identityapp.NewAddressService(addressRepo, locator, log)
	permissionChecker := adminapp.NewPermissionChecker(adminRepo)
	adminService := adminapp.NewService(adminRepo, userRepo, permissionChecker, authService, log)
	vendorService := vendorapp.NewService(vendorRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, vendorRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	searchService := searchapp.NewService(productRepo, categoryRepo, searchRepo, log)
	cartService := cartapp.NewService(cartRepo, productRepo, preferenceStore, eventBus, log)
	checkoutService := checkoutapp.NewService(
		cartRepo, productRepo, orderRepo, paymentRepo, userRepo, addressRepo,
		gateway, idempotencyStore, eventBus, cfg.App.Currency, log,
	)
	confirmationWatcher := checkoutapp.NewConfirmationWatcher(checkoutService)

	// Stale payment sweep
	reconciliation := scheduler.NewReconciliationScheduler(cfg.Reconciler, checkoutService, log)
	if err := reconciliation.Start(context.Background()); err != nil {
		log.Fatal("Failed to start reconciliation scheduler", zap.Error(err))
	}
	defer func() {
		if err := reconciliation.Stop(context.Background()); err != nil {
			log.Error("Error stopping reconciliation scheduler", zap.Error(err))
		}
	}()

	// The cart stream handler listens on the bus so a change made on one
	// connection resyncs every other open stream of the same user
	cartStreamHandler := handler.NewCartStreamHandler(cartService, log)
	eventBus.Subscribe(cartStreamHandler, cart.EventTypeChanged)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.New(router.Dependencies{
		Config:            cfg,
		Logger:            log,
		JWTService:        jwtService,
		TokenBlacklist:    tokenBlacklist,
		PermissionChecker: permissionChecker,

		Auth:       handler.NewAuthHandler(authService),
		Profile:    handler.NewProfileHandler(profileService),
		Address:    handler.NewAddressHandler(addressService),
		Product:    handler.NewProductHandler(productService),
		Category:   handler.NewCategoryHandler(categoryService),
		Search:     handler.NewSearchHandler(searchService, log),
		Cart:       handler.NewCartHandler(cartService),
		CartStream: cartStreamHandler,
		Checkout:   handler.NewCheckoutHandler(checkoutService, confirmationWatcher),
		Webhook:    handler.NewWebhookHandler(gateway, checkoutService, log),
		Vendor:     handler.NewVendorHandler(vendorService),
		Admin:      handler.NewAdminHandler(adminService),
		Upload:     handler.NewUploadHandler(imageStorage, &cfg.Storage, log),
		System:     handler.NewSystemHandler(db),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newImageStorage picks the configured upload backend: the external
// image host when its key is set, S3 when a bucket is set, and the
// in-memory stub otherwise so development works with no credentials.
func newImageStorage(cfg *config.Config, log *zap.Logger) storage.ImageStorage {
	if cfg.Storage.ImageHostKey != "" {
		s, err := storage.NewImageHostStorage(cfg.Storage.ImageHostKey, cfg.Storage.ImageHostURL)
		if err != nil {
			log.Fatal("Failed to configure image host storage", zap.Error(err))
		}
		log.Info("Using image host storage")
		return s
	}
	if cfg.Storage.S3Bucket != "" {
		s, err := storage.NewS3ImageStorage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to configure S3 storage", zap.Error(err))
		}
		log.Info("Using S3 image storage", zap.String("bucket", cfg.Storage.S3Bucket))
		return s
	}
	log.Warn("No image storage configured, uploads are held in memory")
	return storage.NewStubImageStorage()
}
