package ports

import (
	"context"

	"github.com/GoArmGo/UserApp/internal/domain"
	"github.com/google/uuid"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
type UserStorage interface {
	// Save сохраняет нового пользователя; ID присваивается базой данных и записывается в user.
	// Повторный email возвращает domain.ErrEmailTaken.
	Save(ctx context.Context, user *domain.User) error

	// FindAll возвращает всех пользователей в порядке, в котором их отдаёт хранилище.
	FindAll(ctx context.Context) ([]domain.User, error)

	// FindByID возвращает (nil, nil), если пользователя нет.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// DeleteByID удаляет пользователя; отсутствие записи не считается ошибкой.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
