package usecase

import (
	"context"

	"github.com/GoArmGo/UserApp/internal/domain"
	"github.com/google/uuid"
)

// CreateUserRequest — тело запроса на создание пользователя (без идентификатора).
type CreateUserRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// UserResponse — представление пользователя, отдаваемое клиенту.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone *string   `json:"phone"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}

// UserUseCase определяет интерфейс бизнес-логики работы с пользователями.
type UserUseCase interface {
	// Create сохраняет нового пользователя и возвращает его представление с присвоенным ID.
	// Возвращает domain.ErrEmailTaken, если email уже занят.
	Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error)

	// FindAll возвращает всех пользователей в порядке хранилища.
	FindAll(ctx context.Context) ([]UserResponse, error)

	// FindByID возвращает domain.ErrUserNotFound, если пользователя нет.
	FindByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)

	// Delete удаляет пользователя без предварительной проверки существования.
	Delete(ctx context.Context, id uuid.UUID) error
}
