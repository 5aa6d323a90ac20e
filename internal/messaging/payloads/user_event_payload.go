package payloads

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий пользователя.
const (
	UserCreated = "user.created"
	UserDeleted = "user.deleted"
)

// UserEvent представляет событие жизненного цикла пользователя,
// передаваемое через RabbitMQ.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewUserEvent создаёт событие с текущим временем в UTC.
func NewUserEvent(eventType string, userID uuid.UUID) UserEvent {
	return UserEvent{
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}
