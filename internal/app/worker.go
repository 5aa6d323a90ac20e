package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/UserApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/UserApp/internal/core/ports"
	"github.com/GoArmGo/UserApp/internal/domain"
	"github.com/GoArmGo/UserApp/internal/messaging/payloads"
	"github.com/GoArmGo/UserApp/internal/usecase"
)

// newUserEventHandler возвращает обработчик, зеркалирующий пользователей в объектное хранилище
func newUserEventHandler(uc usecase.UserUseCase, files ports.FileStorage, logger *slog.Logger) func(context.Context, payloads.UserEvent) error {
	return func(ctx context.Context, event payloads.UserEvent) error {
		key := minio.UserObjectKey(event.UserID)

		switch event.Type {
		case payloads.UserCreated:
			user, err := uc.FindByID(ctx, event.UserID)
			if errors.Is(err, domain.ErrUserNotFound) {
				// пользователь уже удалён; соответствующее user.deleted придёт следом
				logger.Info("user vanished before mirroring, skipping", "user_id", event.UserID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("load user %s: %w", event.UserID, err)
			}

			body, err := json.Marshal(user)
			if err != nil {
				return fmt.Errorf("marshal user %s: %w", event.UserID, err)
			}

			if _, err := files.UploadFile(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
				return fmt.Errorf("mirror user %s: %w", event.UserID, err)
			}
			logger.Info("user mirrored", "user_id", event.UserID, "key", key)

		case payloads.UserDeleted:
			if err := files.DeleteFile(ctx, key); err != nil {
				return fmt.Errorf("remove mirror of user %s: %w", event.UserID, err)
			}
			logger.Info("user mirror removed", "user_id", event.UserID, "key", key)

		default:
			logger.Warn("ignoring unknown user event", "type", event.Type)
		}
		return nil
	}
}

// runWorker запускает потребителя RabbitMQ и обрабатывает события до отмены ctx
func (a *App) runWorker(ctx context.Context) error {
	if a.userEventConsumer == nil {
		return errors.New("worker mode requires RABBITMQ_URL")
	}
	if a.fileStorage == nil {
		return errors.New("worker mode requires MinIO configuration")
	}

	a.logger.Info("worker started, waiting for user events")

	handler := newUserEventHandler(a.userUseCase, a.fileStorage, a.logger)
	if err := a.userEventConsumer.StartConsumingUserEvents(ctx, handler); err != nil {
		return fmt.Errorf("start RabbitMQ consumer: %w", err)
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received, worker stopped")
	return nil
}
