package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/warranty/internal/warranty/auth"
	"github.com/gartstein/warranty/internal/warranty/controller"
	"github.com/gartstein/warranty/internal/warranty/db"
	"github.com/gartstein/warranty/internal/warranty/events"
	"github.com/gartstein/warranty/internal/warranty/handlers"
	"github.com/gartstein/warranty/internal/warranty/models"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := db.NewManager(initDatabase(cfg), logger)
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Error("failed to close databases", zap.Error(err))
		}
	}()
	// Fail fast on a broken platform database; tenant databases open lazily.
	if _, err := manager.Platform(ctx); err != nil {
		logger.Fatal("failed to initialize platform database", zap.Error(err))
	}
	tenants := controller.NewTenants(manager)

	var publisher models.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopic(cfg.KafkaBrokers, cfg.Topic, cfg.Partitions, logger); err != nil {
			logger.Fatal("failed to ensure Kafka topic", zap.Error(err))
		}
		producer := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		defer producer.Close()
		publisher = producer

		consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.Topic, logger)
		recorder := controller.NewActivityRecorder(tenants, logger)
		consumer.RegisterHandler(models.ClaimStatusChanged, recorder.Handle)
		consumer.Start(ctx)
		defer func() {
			cancel()
			<-consumer.Done()
			consumer.Close()
		}()
	} else {
		logger.Warn("No Kafka brokers configured, domain events are not published")
	}

	claimSvc := controller.NewClaimService(tenants, publisher, logger)
	catalogSvc := controller.NewCatalogService(tenants, publisher, logger)

	authInterceptor := auth.NewAuthInterceptor(cfg.JWTSecret)
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger,
		grpc.ChainUnaryInterceptor(authInterceptor.Unary()),
		grpc.ChainStreamInterceptor(authInterceptor.Stream()),
	)

	gateway := handlers.NewGateway(claimSvc, catalogSvc, logger)
	if err := server.RegisterHTTPGateway(
		ctx,
		[]grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
		cfg.JWTSecret,
		gateway); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(server, errCh, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server error,
// then shuts down servers.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
