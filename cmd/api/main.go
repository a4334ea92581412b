package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aurine/aurine-api/internal/config"
	"github.com/aurine/aurine-api/internal/database"
	"github.com/aurine/aurine-api/internal/handler"
	"github.com/aurine/aurine-api/internal/middleware"
	"github.com/aurine/aurine-api/internal/repository"
	"github.com/aurine/aurine-api/internal/router"
	"github.com/aurine/aurine-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, redisClient, cfg.TimelineCacheTTL, logger)
	productService := service.NewProductService(productRepo, validate, activityService, logger)
	couponService := service.NewCouponService(couponRepo, validate, activityService, logger)
	bannerService := service.NewBannerService(bannerRepo, validate, activityService, logger)
	settingService, err := service.NewSettingService(settingRepo, activityService, logger)
	if err != nil {
		log.Fatalf("failed to create setting service: %v", err)
	}
	revertService := service.NewRevertService(activityRepo, productService, couponService, bannerService, settingService, logger)
	storefrontService := service.NewStorefrontService(productRepo, bannerRepo, couponRepo, redisClient, cfg.CatalogCacheTTL, logger)

	productHandler := handler.NewAdminProductHandler(productService, logger)
	couponHandler := handler.NewAdminCouponHandler(couponService, logger)
	bannerHandler := handler.NewAdminBannerHandler(bannerService, logger)
	settingHandler := handler.NewAdminSettingHandler(settingService, logger)
	activityHandler := handler.NewAdminActivityHandler(activityService, revertService, logger)
	storefrontHandler := handler.NewStorefrontHandler(storefrontService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ProductHandler:    productHandler,
		CouponHandler:     couponHandler,
		BannerHandler:     bannerHandler,
		SettingHandler:    settingHandler,
		ActivityHandler:   activityHandler,
		StorefrontHandler: storefrontHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
