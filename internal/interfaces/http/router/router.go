// Package router assembles the gin engine: global middleware, route
// groups, and the permission gates in front of the admin surface.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/application/admin"
	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/infrastructure/auth"
	"github.com/luxemart/storefront/internal/infrastructure/config"
	"github.com/luxemart/storefront/internal/infrastructure/logger"
	"github.com/luxemart/storefront/internal/interfaces/http/handler"
	"github.com/luxemart/storefront/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs to wire routes
type Dependencies struct {
	Config            *config.Config
	Logger            *zap.Logger
	JWTService        *auth.JWTService
	TokenBlacklist    auth.TokenBlacklist
	PermissionChecker *admin.PermissionChecker

	Auth       *handler.AuthHandler
	Profile    *handler.ProfileHandler
	Address    *handler.AddressHandler
	Product    *handler.ProductHandler
	Category   *handler.CategoryHandler
	Search     *handler.SearchHandler
	Cart       *handler.CartHandler
	CartStream *handler.CartStreamHandler
	Checkout   *handler.CheckoutHandler
	Webhook    *handler.WebhookHandler
	Vendor     *handler.VendorHandler
	Admin      *handler.AdminHandler
	Upload     *handler.UploadHandler
	System     *handler.SystemHandler
}

// New builds the gin engine with the full middleware stack and every
// route group registered
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	// liveness and readiness live outside the versioned API
	deps.System.RegisterRoutes(&engine.RouterGroup)

	api := engine.Group("/api/v1")

	// public surface: browsing, search, store pages, webhooks
	deps.Product.RegisterPublicRoutes(api)
	deps.Category.RegisterPublicRoutes(api)
	deps.Vendor.RegisterPublicRoutes(api)
	deps.Search.RegisterRoutes(api)
	deps.Webhook.RegisterRoutes(api)

	// login and registration get their own tighter rate limit
	authPublic := api.Group("")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authPublic.Use(middleware.RateLimit(authLimiter))
	}

	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     deps.JWTService,
		TokenBlacklist: deps.TokenBlacklist,
		Logger:         log,
	}))

	deps.Auth.RegisterRoutes(authPublic, authed)
	deps.Profile.RegisterRoutes(authed)
	deps.Address.RegisterRoutes(authed)
	deps.Cart.RegisterRoutes(authed)
	deps.CartStream.RegisterRoutes(authed)
	deps.Checkout.RegisterRoutes(authed)
	deps.Vendor.RegisterRoutes(authed)
	deps.Product.RegisterVendorRoutes(authed)
	deps.Upload.RegisterRoutes(authed)

	// each admin concern sits behind its own permission gate
	adminGroup := authed.Group("/admin")

	vendorReview := adminGroup.Group("", middleware.RequirePermission(deps.PermissionChecker, identity.PermManageVendors, log))
	deps.Vendor.RegisterAdminRoutes(vendorReview)

	catalogAdmin := adminGroup.Group("", middleware.RequirePermission(deps.PermissionChecker, identity.PermManageCategories, log))
	deps.Category.RegisterAdminRoutes(catalogAdmin)
	deps.Search.RegisterAdminRoutes(catalogAdmin)

	productReview := adminGroup.Group("", middleware.RequirePermission(deps.PermissionChecker, identity.PermManageProducts, log))
	deps.Product.RegisterAdminRoutes(productReview)

	adminMgmt := adminGroup.Group("", middleware.RequirePermission(deps.PermissionChecker, identity.PermManageAdmins, log))
	deps.Admin.RegisterAdminManagementRoutes(adminMgmt)

	userMgmt := adminGroup.Group("", middleware.RequirePermission(deps.PermissionChecker, identity.PermManageUsers, log))
	deps.Admin.RegisterUserManagementRoutes(userMgmt)

	return engine
}
