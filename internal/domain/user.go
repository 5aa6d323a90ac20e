// internal/domain/user.go
package domain

import (
	"github.com/google/uuid"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name  string    `json:"name" db:"name" gorm:"not null"`
	Email string    `json:"email" db:"email" gorm:"uniqueIndex;not null"`
	Phone *string   `json:"phone" db:"phone"`
}

func (User) TableName() string {
	return "users"
}
