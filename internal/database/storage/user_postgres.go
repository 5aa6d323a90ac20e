package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/UserApp/internal/domain"
	"github.com/GoArmGo/UserApp/internal/metrics"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	driverName = "sqlx"

	// uniqueViolation — код ошибки PostgreSQL для нарушения UNIQUE.
	uniqueViolation = "23505"
)

// UserStorage реализует интерфейс ports.UserStorage поверх sqlx.
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// Save вставляет пользователя; id генерируется базой и возвращается через RETURNING
func (s *UserStorage) Save(ctx context.Context, user *domain.User) error {
	start := time.Now()

	query := `INSERT INTO users (name, email, phone) VALUES ($1, $2, $3) RETURNING id`

	err := s.db.QueryRowxContext(ctx, query, user.Name, user.Email, user.Phone).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			metrics.RecordStorageOperation("save", driverName, "conflict")
			s.logger.Warn("email already in use", "email", user.Email)
			return domain.ErrEmailTaken
		}
		metrics.RecordStorageOperation("save", driverName, "error")
		s.logger.Error("failed to insert user", "email", user.Email, "error", err)
		return fmt.Errorf("insert user: %w", err)
	}

	metrics.RecordStorageOperation("save", driverName, "ok")
	s.logger.Info("user saved successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// FindAll возвращает всех пользователей без сортировки
func (s *UserStorage) FindAll(ctx context.Context) ([]domain.User, error) {
	start := time.Now()

	var users []domain.User
	if err := s.db.SelectContext(ctx, &users, `SELECT id, name, email, phone FROM users`); err != nil {
		metrics.RecordStorageOperation("find_all", driverName, "error")
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("select users: %w", err)
	}

	metrics.RecordStorageOperation("find_all", driverName, "ok")
	s.logger.Info("listed users successfully",
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// FindByID получает пользователя по ID; (nil, nil), если записи нет
func (s *UserStorage) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	query := `SELECT id, name, email, phone FROM users WHERE id = $1 LIMIT 1`

	err := s.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.RecordStorageOperation("find_by_id", driverName, "not_found")
			s.logger.Warn("user not found by id", "user_id", id)
			return nil, nil
		}
		metrics.RecordStorageOperation("find_by_id", driverName, "error")
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("select user by id: %w", err)
	}

	metrics.RecordStorageOperation("find_by_id", driverName, "ok")
	s.logger.Info("user retrieved by id",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

// DeleteByID удаляет пользователя; ноль затронутых строк не ошибка
func (s *UserStorage) DeleteByID(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		metrics.RecordStorageOperation("delete_by_id", driverName, "error")
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return fmt.Errorf("delete user: %w", err)
	}

	metrics.RecordStorageOperation("delete_by_id", driverName, "ok")

	attrs := []any{"user_id", id, "duration_ms", time.Since(start).Milliseconds()}
	if affected, err := res.RowsAffected(); err != nil {
		attrs = append(attrs, "rows_affected_error", err)
	} else {
		attrs = append(attrs, "rows_affected", affected)
	}
	s.logger.Info("user delete executed", attrs...)
	return nil
}
