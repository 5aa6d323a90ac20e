package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/UserApp/internal/domain"
	"github.com/GoArmGo/UserApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UserHandler — обработчик HTTP-запросов для работы с пользователями.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: uc,
		logger:      logger,
	}
}

// RegisterRoutes монтирует маршруты /users на роутер.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithUseCaseError переводит ошибку usecase-слоя в HTTP-статус
func (h *UserHandler) respondWithUseCaseError(w http.ResponseWriter, err error, attrs ...any) {
	attrs = append(attrs, "error", err)

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		h.logger.Warn("user not found", attrs...)
		respondWithError(w, http.StatusNotFound, "Пользователь не найден", h.logger)
	case errors.Is(err, domain.ErrEmailTaken):
		h.logger.Warn("email already in use", attrs...)
		respondWithError(w, http.StatusConflict, "Email уже используется", h.logger)
	default:
		h.logger.Error("user operation failed", attrs...)
		respondWithError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", h.logger)
	}
}

// parseUserID достаёт {id} из пути; при ошибке сам пишет 400
func (h *UserHandler) parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("invalid user id parameter", "id", idStr, "error", err)
		respondWithError(w, http.StatusBadRequest, "Некорректный id пользователя", h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSONBody читает ровно одно JSON-значение; любые данные после него считаются ошибкой
func decodeJSONBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// CreateUser — POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateUserRequest
	if err := decodeJSONBody(r.Body, &req); err != nil {
		h.logger.Warn("failed to decode request body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	if req.Name == "" || req.Email == "" {
		h.logger.Warn("missing required fields", "name_set", req.Name != "", "email_set", req.Email != "")
		respondWithError(w, http.StatusBadRequest, "Поля name и email обязательны", h.logger)
		return
	}

	user, err := h.userUseCase.Create(r.Context(), req)
	if err != nil {
		h.respondWithUseCaseError(w, err, "endpoint", "CreateUser", "email", req.Email)
		return
	}

	h.logger.Info("user created", "user_id", user.ID)
	respondWithJSON(w, http.StatusCreated, user, h.logger)
}

// ListUsers — GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUseCase.FindAll(r.Context())
	if err != nil {
		h.respondWithUseCaseError(w, err, "endpoint", "ListUsers")
		return
	}

	h.logger.Info("users listed", "count", len(users))
	respondWithJSON(w, http.StatusOK, users, h.logger)
}

// GetUser — GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userUseCase.FindByID(r.Context(), id)
	if err != nil {
		h.respondWithUseCaseError(w, err, "endpoint", "GetUser", "user_id", id)
		return
	}

	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// DeleteUser — DELETE /users/{id}; удаление несуществующего id тоже 204
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.userUseCase.Delete(r.Context(), id); err != nil {
		h.respondWithUseCaseError(w, err, "endpoint", "DeleteUser", "user_id", id)
		return
	}

	h.logger.Info("user deleted", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}
