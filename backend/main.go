package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crowdfund/backend/cache"
	"crowdfund/backend/config"
	"crowdfund/backend/jobs"
	"crowdfund/backend/routes"
	"crowdfund/backend/services"
	"crowdfund/backend/storage"
	"crowdfund/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		EnableColors: cfg.LogFormat != "json",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize user database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Error initializing database: %v", err)
	}
	users := storage.NewGormUserStore(db)

	ideas, forums, closeStores := openDocumentStores(ctx, cfg, logger)
	defer closeStores()

	searchCache, closeCache := openSearchCache(ctx, cfg, logger)
	defer closeCache()

	// Expiration sweep
	sweeper, err := jobs.NewExpirationSweeper(ideas, cfg.SweepSchedule, logger)
	if err != nil {
		logger.Fatalf("Error configuring sweep: %v", err)
	}
	go sweeper.Run(ctx)

	app := routes.NewApp(routes.Dependencies{
		Cfg:      cfg,
		Logger:   logger,
		Users:    users,
		Ideas:    services.NewIdeaService(ideas, users, searchCache, cfg.SearchCacheTTL, logger),
		Forums:   services.NewForumService(forums, users, searchCache, cfg.SearchCacheTTL, logger),
		Accounts: services.NewUserService(users, logger),
	})

	go func() {
		<-ctx.Done()
		logger.Println("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Printf("Shutdown: %v", err)
		}
	}()

	// Start server
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Printf("Server stopped: %v", err)
	}
}

func openDocumentStores(ctx context.Context, cfg *config.Config, logger *log.Logger) (storage.IdeaStore, storage.ForumStore, func()) {
	if cfg.MongoURI == "" {
		logger.Println("MONGO_URI not set, keeping ideas and forums in memory")
		return storage.NewMemoryIdeaStore(), storage.NewMemoryForumStore(), func() {}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, db, err := storage.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatalf("Error connecting to MongoDB: %v", err)
	}
	if err := storage.EnsureIndexes(connectCtx, db); err != nil {
		logger.Fatalf("Error creating MongoDB indexes: %v", err)
	}

	return storage.NewMongoIdeaStore(db), storage.NewMongoForumStore(db), func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Printf("MongoDB disconnect: %v", err)
		}
	}
}

func openSearchCache(ctx context.Context, cfg *config.Config, logger *log.Logger) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(cfg.SearchCacheTTL), func() {}
	}

	client, err := cache.DialRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Printf("Redis unavailable at %s, using in-process cache: %v", cfg.RedisAddr, err)
		return cache.NewMemoryCache(cfg.SearchCacheTTL), func() {}
	}
	return cache.NewRedisCache(client), func() {
		if err := client.Close(); err != nil {
			logger.Printf("Redis close: %v", err)
		}
	}
}
