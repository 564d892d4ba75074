package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-restaurant-orders/assets"
	"go-restaurant-orders/config"
	controller "go-restaurant-orders/controllers"
	"go-restaurant-orders/database"
	"go-restaurant-orders/events"
	"go-restaurant-orders/helpers"
	"go-restaurant-orders/logger"
	"go-restaurant-orders/middleware"
	"go-restaurant-orders/repositories"
	"go-restaurant-orders/routes"
	"go-restaurant-orders/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Error loading configuration: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logCfg.Output = cfg.LogOutput
	logCfg.LogPath = cfg.LogPath
	if err := logger.Init(logCfg); err != nil {
		logrus.Fatalf("Error initializing logger: %v", err)
	}
	log := logger.GetAppLogger()

	client, err := database.DBinstance(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Error connecting to MongoDB")
	}
	defer database.Disconnect(client)
	db := client.Database(cfg.MongoDatabase)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		log.WithError(err).Fatal("Error creating indexes")
	}
	cancelIndexes()

	orgRepo := repositories.NewOrgRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	ingredientRepo := repositories.NewIngredientRepository(db)
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	userRepo := repositories.NewUserRepository(db)

	hub := events.NewHub(log, cfg.AllowedOrigins())
	emitter := events.Multi{hub, events.LogEmitter{Log: log}}
	if cfg.RabbitMQURL != "" {
		publisher, err := events.DialAMQP(cfg.RabbitMQURL, cfg.EventsExchange, log)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, events stay local")
		} else {
			defer publisher.Close()
			emitter = append(emitter, publisher)
		}
	}

	assetClient := assets.NewClient(cfg.AssetsDeleteURL, cfg.AssetsToken, log)
	tokens := helpers.NewTokenManager(cfg.SecretKey, cfg.TokenTTL)
	clock := services.NewClock(cfg.Location())

	ownership := services.NewOwnership(orgRepo, categoryRepo, orderRepo, productRepo)
	catalog := services.NewCatalogResolver(productRepo, log)
	cascade := services.NewCascadeDeleter(orgRepo, categoryRepo, orderRepo, productRepo, ownership,
		database.NewMongoTransactor(client), assetClient, log)

	orderService := services.NewOrderService(orderRepo, orgRepo, catalog, ownership, emitter, log, clock)
	historyService := services.NewHistoryService(orderRepo, ownership, clock)
	orgService := services.NewOrgService(orgRepo, ownership, cascade, log, clock)
	categoryService := services.NewCategoryService(categoryRepo, productRepo, ownership, clock)
	productService := services.NewProductService(productRepo, categoryRepo, ingredientRepo, ownership, assetClient, log, clock)
	ingredientService := services.NewIngredientService(ingredientRepo, productRepo, clock)
	userService := services.NewUserService(userRepo, tokens, clock)

	if logCfg.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger.GetAccessLogger()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	})

	public := router.Group("/")
	private := router.Group("/", middleware.Authentication(tokens))

	routes.UserRoutes(public, private, controller.NewUserController(userService), hub.HandleWebSocket(ownership))
	routes.OrgRoutes(public, private, controller.NewOrgController(orgService))
	routes.MenuRoutes(public, private,
		controller.NewCategoryController(categoryService),
		controller.NewProductController(productService),
		controller.NewIngredientController(ingredientService))
	routes.OrderRoutes(public, private,
		controller.NewOrderController(orderService),
		controller.NewHistoryController(historyService, cfg.Location()))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("port", cfg.Port).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}
