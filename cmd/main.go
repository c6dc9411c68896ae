package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ideas-service/cache"
	"ideas-service/config"
	database "ideas-service/db"
	"ideas-service/handler"
	"ideas-service/middleware"
	natsClient "ideas-service/nats"
	"ideas-service/publisher"
	"ideas-service/repository"
	"ideas-service/repository/inmem"
	"ideas-service/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	srvCfg := config.LoadServerConfig()

	// Repositories: Postgres by default, in-memory when STORAGE=memory.
	var (
		ideaRepo   repository.IdeaRepository
		followRepo repository.FollowRepository
		userRepo   repository.UserRepository
		health     func(ctx context.Context) error
	)

	if os.Getenv("STORAGE") == "memory" {
		store := inmem.NewStore()
		ideaRepo = store.Ideas()
		followRepo = store.Follows()
		userRepo = store.Users()
		logger.Info("using in-memory storage")
	} else {
		dbCfg, err := config.LoadDatabaseConfig("")
		if err != nil {
			logger.Fatal("failed to load database config", zap.Error(err))
		}

		dbConn, err := database.NewConnection(database.Config{
			Host:         dbCfg.Host,
			Port:         dbCfg.Port,
			User:         dbCfg.User,
			Password:     dbCfg.Password,
			DBName:       dbCfg.DBName,
			SSLMode:      dbCfg.SSLMode,
			MaxOpenConns: dbCfg.MaxOpenConns,
			MaxIdleConns: dbCfg.MaxIdleConns,
			MaxLifetime:  dbCfg.MaxLifetime,
		})
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer dbConn.Close()
		logger.Info("connected to database")

		ideaRepo = repository.NewIdeaRepository(dbConn.DB)
		followRepo = repository.NewFollowRepository(dbConn.DB)
		userRepo = repository.NewUserRepository(dbConn.DB)
		health = dbConn.HealthCheck
	}

	// Timeline cache is optional; without REDIS_ADDR every read goes to the
	// repositories.
	var timelines service.TimelineCache
	redisCfg := config.LoadRedisConfig()
	if redisCfg.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		defer redisClient.Close()
		timelines = cache.NewTimelineCache(redisClient, redisCfg.FeedTTL)
		logger.Info("timeline cache enabled", zap.String("addr", redisCfg.Addr))
	}

	// Event publishing is optional; without NATS_URL mutations simply do not
	// signal the notification collaborator.
	var eventPublisher *publisher.EventPublisher
	natsCfg := config.LoadNATSConfig()
	if natsCfg.URL != "" {
		nc, err := natsClient.NewClient(natsClient.Config{
			URL:           natsCfg.URL,
			MaxReconnects: natsCfg.MaxReconnects,
			ReconnectWait: natsCfg.ReconnectWait,
		})
		if err != nil {
			logger.Warn("failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			defer nc.Close()
			eventPublisher = publisher.NewEventPublisher(nc, logger)
			logger.Info("event publishing enabled", zap.String("url", natsCfg.URL))
		}
	}

	queries := service.NewQueryService(ideaRepo, followRepo, userRepo, timelines, logger)
	mutations := service.NewMutationService(ideaRepo, followRepo, userRepo, timelines, eventPublisher, logger)

	auth := middleware.NewAuthenticator(srvCfg.JWTSecret)
	router := handler.NewRouter(queries, mutations, auth, logger, health)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", srvCfg.Port),
		Handler: router.Setup(),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down gracefully")

		ctx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("ideas service listening", zap.String("port", srvCfg.Port))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("failed to serve", zap.Error(err))
	}

	logger.Info("server stopped")
}
