package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ms-railway/internal/config"
	"ms-railway/internal/database"
	"ms-railway/internal/kafka"
	"ms-railway/internal/logger"
	"ms-railway/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, ".env file not found, using environment variables")
	}

	cfg := config.Load()

	log, err := logger.NewLogger(logger.Options{Service: "ms-railway", Dir: cfg.Log.Dir, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("APP", "Starting railway booking service")
	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("open database: %v", err))
	}
	defer db.Close()

	if err := database.Prepare(db, cfg.Database, log); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("migrate database: %v", err))
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("REDIS", fmt.Sprintf("connect redis: %v", err))
	}
	defer redisClient.Close()

	var publisher kafka.Publisher = kafka.NoopPublisher{Logger: log}
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topics.All(), log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		publisher = kafka.NewProducer(cfg.Kafka.Brokers, log)
		log.Info("KAFKA", fmt.Sprintf("Producer ready for %v", cfg.Kafka.Brokers))
	} else {
		log.Info("KAFKA", "Kafka disabled, order events are dropped")
	}
	defer publisher.Close()

	handler := router.New(router.Deps{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Events: kafka.NewEventPublisher(publisher, cfg.Kafka.Topics),
		Logger: log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Railway service listening on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "Railway service shutdown complete")
	}
}
