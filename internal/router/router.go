package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aurine/aurine-api/internal/config"
	"github.com/aurine/aurine-api/internal/handler"
	"github.com/aurine/aurine-api/internal/middleware"
	"github.com/aurine/aurine-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProductHandler    *handler.AdminProductHandler
	CouponHandler     *handler.AdminCouponHandler
	BannerHandler     *handler.AdminBannerHandler
	SettingHandler    *handler.AdminSettingHandler
	ActivityHandler   *handler.AdminActivityHandler
	StorefrontHandler *handler.StorefrontHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Public storefront
	if deps.StorefrontHandler != nil {
		shop := app.Group("/api/v1/shop")
		deps.StorefrontHandler.Register(shop)
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	admin := app.Group("/api/admin", jwtMiddleware, middleware.RateLimit("admin", cfg.AdminRateLimit, time.Minute))

	if deps.ProductHandler != nil {
		deps.ProductHandler.Register(admin.Group("/products"))
	}
	if deps.CouponHandler != nil {
		deps.CouponHandler.Register(admin.Group("/coupons"))
	}
	if deps.BannerHandler != nil {
		deps.BannerHandler.Register(admin.Group("/banners"))
	}
	if deps.SettingHandler != nil {
		deps.SettingHandler.Register(admin.Group("/settings"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin.Group("/activity"))
	}
}
