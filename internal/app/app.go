package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/UserApp/internal/config"
	"github.com/GoArmGo/UserApp/internal/core/ports"
	"github.com/GoArmGo/UserApp/internal/database/client"
	"github.com/GoArmGo/UserApp/internal/usecase"
)

// Режимы запуска приложения.
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

type App struct {
	Config            *config.Config
	logger            *slog.Logger
	db                *client.Client
	userUseCase       usecase.UserUseCase
	userEventConsumer ports.UserEventConsumer
	fileStorage       ports.FileStorage
	closers           []func() error
}

func NewApp(cfg *config.Config,
	logger *slog.Logger,
	db *client.Client,
	userUseCase usecase.UserUseCase,
	userEventConsumer ports.UserEventConsumer,
	fileStorage ports.FileStorage,
	closers ...func() error) *App {
	return &App{
		Config:            cfg,
		logger:            logger,
		db:                db,
		userUseCase:       userUseCase,
		userEventConsumer: userEventConsumer,
		fileStorage:       fileStorage,
		closers:           closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = a.runServer(ctx)
	case ModeWorker:
		err = a.runWorker(ctx)
	default:
		err = fmt.Errorf("unknown mode %q (use %q or %q)", mode, ModeServer, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
		err = errors.Join(err, closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения: сначала брокер, затем БД
func (a *App) Shutdown() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
