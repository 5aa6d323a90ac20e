package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/UserApp/internal/core/ports"
	"github.com/GoArmGo/UserApp/internal/domain"
	"github.com/GoArmGo/UserApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	userStorage ports.UserStorage
	publisher   ports.UserEventPublisher
	logger      *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase.
// publisher может быть nil — тогда события не публикуются.
func NewUserUseCase(
	userStorage ports.UserStorage,
	publisher ports.UserEventPublisher,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		userStorage: userStorage,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create копирует поля запроса в сущность как есть и сохраняет её
func (uc *userUseCase) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user := &domain.User{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}

	if err := uc.userStorage.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: create user: %w", err)
	}

	uc.publish(ctx, payloads.UserCreated, user.ID)

	resp := toUserResponse(user)
	return &resp, nil
}

func (uc *userUseCase) FindAll(ctx context.Context) ([]UserResponse, error) {
	users, err := uc.userStorage.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: list users: %w", err)
	}

	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

func (uc *userUseCase) FindByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := uc.userStorage.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: find user %s: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("usecase: user %s: %w", id, domain.ErrUserNotFound)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (uc *userUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := uc.userStorage.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("usecase: delete user %s: %w", id, err)
	}

	uc.publish(ctx, payloads.UserDeleted, id)
	return nil
}

// publish отправляет событие; запись в хранилище уже выполнена, поэтому ошибка только логируется
func (uc *userUseCase) publish(ctx context.Context, eventType string, id uuid.UUID) {
	if uc.publisher == nil {
		return
	}

	if err := uc.publisher.PublishUserEvent(ctx, payloads.NewUserEvent(eventType, id)); err != nil {
		uc.logger.Warn("failed to publish user event",
			"type", eventType,
			"user_id", id,
			"error", err,
		)
	}
}
