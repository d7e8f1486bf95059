package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/auth"
	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/services/item"
	"github.com/campusswap/campusswap-api/internal/services/media"
	"github.com/campusswap/campusswap-api/internal/services/message"
	"github.com/campusswap/campusswap-api/internal/services/notification"
	"github.com/campusswap/campusswap-api/internal/services/report"
	"github.com/campusswap/campusswap-api/internal/services/review"
	"github.com/campusswap/campusswap-api/internal/services/trade"
	"github.com/campusswap/campusswap-api/internal/services/university"
	"github.com/campusswap/campusswap-api/internal/services/user"
	"github.com/campusswap/campusswap-api/internal/store/mongodb"
	"github.com/campusswap/campusswap-api/internal/store/postgres"
	"github.com/campusswap/campusswap-api/internal/validation"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	mongoClient, err := mongodb.Connect(ctx, cfg.MongoConfig.URI)
	if err != nil {
		log.Fatalf("mongodb: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	users := postgres.NewUserStore(pool)
	universities := postgres.NewUniversityStore(pool)
	sessions := postgres.NewSessionStore(pool)
	items := postgres.NewItemStore(pool)
	trades := postgres.NewTradeStore(pool)
	messages := postgres.NewMessageStore(pool)
	reviews := postgres.NewReviewStore(pool)
	reports := postgres.NewReportStore(pool)
	events := mongodb.NewEventStore(mongoClient, cfg.MongoConfig.Database)

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	mediaService, err := media.NewMediaService(cfg)
	if err != nil {
		log.Fatalf("media: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:         "CampusSwap API",
		ErrorHandler:    apperr.ErrorHandler,
		StructValidator: validation.New(),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	authMW := middleware.AuthRequired(jwtService, sessions)

	user.NewUserService(cfg, jwtService, users, sessions, universities).SetupRoutes(app, authMW)
	university.NewUniversityService(universities).SetupRoutes(app)
	item.NewItemService(items, users, mediaService).SetupRoutes(app, authMW)
	trade.NewTradeService(trades, items, users, events).SetupRoutes(app, authMW)
	message.NewMessageService(messages, users, items, trades, events).SetupRoutes(app, authMW)
	review.NewReviewService(reviews, trades, events).SetupRoutes(app, authMW)
	report.NewReportService(reports, items).SetupRoutes(app, authMW)
	notification.NewNotificationService(events).SetupRoutes(app, authMW)
	mediaService.SetupRoutes(app, authMW)

	log.Printf("CampusSwap API listening on :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
