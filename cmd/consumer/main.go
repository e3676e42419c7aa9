package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/serroba/bookmarks/internal/container"
	"github.com/serroba/bookmarks/internal/messaging"
	"go.uber.org/zap"
)

// The audit consumer reads the Redis streams written by the server and hands
// every event to the log sink. Several instances share one consumer group.
func main() {
	opts := &container.Options{
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, injector, logger); err != nil {
		logger.Error("audit consumer stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, injector *do.Injector, logger *zap.Logger) error {
	group, err := do.Invoke[*messaging.ConsumerGroup](injector)
	if err != nil {
		return err
	}

	if err := group.Start(ctx); err != nil {
		return err
	}

	logger.Info("audit consumer running",
		zap.String("redis", do.MustInvoke[*container.Options](injector).RedisAddr),
		zap.String("group", container.AuditConsumerGroup),
	)

	<-ctx.Done()

	logger.Info("shutting down")

	if err := injector.Shutdown(); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}
