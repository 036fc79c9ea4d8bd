package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Totarae/LinkRedirector/internal/config"
	"github.com/Totarae/LinkRedirector/internal/database"
	"github.com/Totarae/LinkRedirector/internal/handlers"
	"github.com/Totarae/LinkRedirector/internal/repositories"
	"github.com/Totarae/LinkRedirector/internal/router"
	"github.com/Totarae/LinkRedirector/internal/service"
	"github.com/Totarae/LinkRedirector/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Инициализация конфигурации
	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Сервер остановлен с ошибкой", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// newStore выбирает хранилище по режиму из конфигурации.
// Возвращаемая функция освобождает ресурсы хранилища.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.LinkStore, func(), error) {
	switch cfg.Mode {
	case config.ModeDatabase:
		if err := database.Migrate(cfg.DatabaseDSN, cfg.PgMigrationsPath, logger); err != nil {
			return nil, nil, err
		}
		db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewLinkRepository(db), db.Close, nil
	case config.ModeRedis:
		rs, err := storage.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() {
			if err := rs.Close(); err != nil {
				logger.Warn("Ошибка закрытия Redis", zap.Error(err))
			}
		}, nil
	case config.ModeFile:
		return storage.NewFileStore(cfg.FileStoragePath, logger), func() {}, nil
	default:
		return storage.NewFileStore("", logger), func() {}, nil
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Инициализация конфигурации",
		zap.String("address", cfg.ServerAddress),
		zap.String("mode", cfg.Mode),
		zap.String("fallback", cfg.FallbackURL),
		zap.Duration("accounting_timeout", cfg.AccountingTimeout),
		zap.Bool("https", cfg.EnableHTTPS),
	)

	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init storage (%s): %w", cfg.Mode, err)
	}
	defer closeStore()

	handler := handlers.NewHandler(
		service.NewResolver(store, logger),
		service.NewAccountant(store, logger, cfg.AccountingTimeout),
		store,
		logger,
		cfg.FallbackURL,
	)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.NewRouter(handler, logger, cfg.TrustedSubnet),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress))
		if cfg.EnableHTTPS {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Остановка сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
