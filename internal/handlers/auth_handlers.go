package handlers

import (
	"net/http"

	"revisionHub/internal/handlers/dto"
	"revisionHub/internal/logger"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Service AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{Service: authService}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var request dto.SignUpRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, token, err := h.Service.SignUp(r.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: Пользователь создан", zap.String("user_id", created.ID.String()))
	responseWithData(w, http.StatusCreated, dto.FromUser(created, token))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request dto.LoginRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	found, token, err := h.Service.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithData(w, http.StatusOK, dto.FromUser(found, token))
}

// Me отдаёт профиль владельца токена
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	found, err := h.Service.Me(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	responseWithData(w, http.StatusOK, dto.ToUserResponse(found))
}
