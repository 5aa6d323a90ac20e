package di

import (
	"context"

	"github.com/GoArmGo/UserApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/UserApp/internal/app"
	"github.com/GoArmGo/UserApp/internal/config"
	"github.com/GoArmGo/UserApp/internal/core/ports"
	"github.com/GoArmGo/UserApp/internal/database/client"
	"github.com/GoArmGo/UserApp/internal/database/migrations"
	"github.com/GoArmGo/UserApp/internal/database/postgres"
	"github.com/GoArmGo/UserApp/internal/database/storage"
	"github.com/GoArmGo/UserApp/internal/logger"
	"github.com/GoArmGo/UserApp/internal/rabbitmq"
	"github.com/GoArmGo/UserApp/internal/usecase"
)

// BuildApp инициализирует все зависимости для выбранного режима и возвращает готовый объект App.
func BuildApp(ctx context.Context, mode string) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. PostgreSQL + схема
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	if err := migrations.Apply(dbClient.DB.DB, slogger); err != nil {
		dbClient.Close()
		return nil, err
	}

	// 3. Хранилище пользователей
	var userStorage ports.UserStorage
	switch cfg.StorageDriver {
	case config.StorageDriverGorm:
		userStorage = postgres.NewGormUserStorage(dbClient.Gorm, slogger)
	default:
		userStorage = storage.NewUserStorage(dbClient.DB, slogger)
	}
	slogger.Info("user storage initialized", "driver", cfg.StorageDriver)

	// 4. RabbitMQ (опционально)
	var (
		publisher ports.UserEventPublisher
		consumer  ports.UserEventConsumer
		closers   []func() error
	)
	if cfg.EventsEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			dbClient.Close()
			return nil, err
		}
		publisher = rabbitMQClient
		consumer = rabbitMQClient
		closers = append(closers, rabbitMQClient.Close)
	} else {
		slogger.Info("RABBITMQ_URL not set, user events disabled")
	}

	// 5. Объектное хранилище нужно только воркеру
	var fileStorage ports.FileStorage
	if mode == app.ModeWorker && cfg.MinioConfigured() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			for _, closeFn := range closers {
				closeFn()
			}
			dbClient.Close()
			return nil, err
		}
		fileStorage = minioClient
	}

	// 6. Бизнес-логика
	userUseCase := usecase.NewUserUseCase(userStorage, publisher, slogger)

	// 7. Сборка итогового приложения
	application := app.NewApp(
		cfg,
		slogger,
		dbClient,
		userUseCase,
		consumer,
		fileStorage,
		closers...,
	)

	slogger.Info("all dependencies initialized")
	return application, nil
}
