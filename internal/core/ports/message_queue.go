package ports

import (
	"context"

	"github.com/GoArmGo/UserApp/internal/messaging/payloads"
)

// UserEventPublisher определяет методы для публикации событий жизненного цикла пользователя.
// Используется usecase-слоем после успешной записи в хранилище
type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, event payloads.UserEvent) error
}

// UserEventConsumer определяет методы для потребления событий пользователя
// будет использоваться воркером для получения задач из очереди
type UserEventConsumer interface {
	// StartConsumingUserEvents начинает прослушивание очереди событий
	// принимает функцию-обработчик, которая будет вызываться для каждого полученного сообщения
	StartConsumingUserEvents(ctx context.Context, handler func(context.Context, payloads.UserEvent) error) error
}
