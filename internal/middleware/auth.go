package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"revisionHub/internal/logger"
	"revisionHub/internal/service"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const UserIDKey contextKey = "user_id"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

// Auth пропускает запрос только с действующим Bearer-токеном существующего пользователя
// и кладёт ID пользователя в контекст
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				unauthorized(w, r, "отсутствует токен")
				return
			}

			userID, err := authenticator.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				var businessErr *service.BusinessError
				if !errors.As(err, &businessErr) {
					logger.Error("HTTP: Ошибка проверки токена", err,
						zap.String("request_id", GetRequestID(r.Context())))
					writeAuthError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Внутренняя ошибка сервера")
					return
				}
				logger.Warn("HTTP: Отклонён токен",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))
				unauthorized(w, r, "недействительный токен")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// WithUserID нужен обработчикам в тестах, минуя проверку токена
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func writeAuthError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":      code,
		"message":    message,
		"request_id": GetRequestID(r.Context()),
	})
}
