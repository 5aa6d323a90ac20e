package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/UserApp/internal/domain"
	"github.com/GoArmGo/UserApp/internal/metrics"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const driverName = "gorm"

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// Save создаёт пользователя; id проставляется базой (default gen_random_uuid()) через RETURNING
func (s *GormUserStorage) Save(ctx context.Context, user *domain.User) error {
	start := time.Now()

	result := s.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			metrics.RecordStorageOperation("save", driverName, "conflict")
			s.logger.Warn("email already in use", "email", user.Email)
			return domain.ErrEmailTaken
		}
		metrics.RecordStorageOperation("save", driverName, "error")
		s.logger.Error("failed to create user with GORM", "email", user.Email, "error", result.Error)
		return fmt.Errorf("create user with GORM: %w", result.Error)
	}

	metrics.RecordStorageOperation("save", driverName, "ok")
	s.logger.Info("user saved successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *GormUserStorage) FindAll(ctx context.Context) ([]domain.User, error) {
	start := time.Now()

	var users []domain.User
	if result := s.db.WithContext(ctx).Find(&users); result.Error != nil {
		metrics.RecordStorageOperation("find_all", driverName, "error")
		s.logger.Error("failed to list users with GORM", "error", result.Error)
		return nil, fmt.Errorf("list users with GORM: %w", result.Error)
	}

	metrics.RecordStorageOperation("find_all", driverName, "ok")
	s.logger.Info("listed users successfully",
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// FindByID получает пользователя по ID; gorm.ErrRecordNotFound превращается в (nil, nil)
func (s *GormUserStorage) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	result := s.db.WithContext(ctx).Take(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			metrics.RecordStorageOperation("find_by_id", driverName, "not_found")
			s.logger.Warn("user not found by id", "user_id", id)
			return nil, nil
		}
		metrics.RecordStorageOperation("find_by_id", driverName, "error")
		s.logger.Error("failed to get user by id with GORM", "user_id", id, "error", result.Error)
		return nil, fmt.Errorf("get user by id with GORM: %w", result.Error)
	}

	metrics.RecordStorageOperation("find_by_id", driverName, "ok")
	s.logger.Info("user retrieved by id",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

func (s *GormUserStorage) DeleteByID(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	result := s.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if result.Error != nil {
		metrics.RecordStorageOperation("delete_by_id", driverName, "error")
		s.logger.Error("failed to delete user with GORM", "user_id", id, "error", result.Error)
		return fmt.Errorf("delete user with GORM: %w", result.Error)
	}

	metrics.RecordStorageOperation("delete_by_id", driverName, "ok")
	s.logger.Info("user delete executed",
		"user_id", id,
		"rows_affected", result.RowsAffected,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// isUniqueViolation распознаёт нарушение UNIQUE как от pgx (через TranslateError), так и от lib/pq
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
