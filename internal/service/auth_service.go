package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"revisionHub/internal/logger"
	"revisionHub/internal/models/user"
	rep "revisionHub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gookit/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt не принимает пароли длиннее 72 байт
	maxPasswordLength = 72
)

type AuthService struct {
	users  UserRepository
	secret []byte
	ttl    time.Duration
	cost   int
	clock  func() time.Time
}

func NewAuthService(users UserRepository, secret string, ttl time.Duration, options ...AuthOption) *AuthService {
	s := &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		clock:  time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*user.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, "", NewValidationError("name", "имя не может быть пустым")
	}
	if !validate.IsEmail(email) {
		return nil, "", NewValidationError("email", "некорректный адрес")
	}
	if len(password) < minPasswordLength {
		return nil, "", NewValidationError("password", fmt.Sprintf("минимум %d символов", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return nil, "", NewValidationError("password", fmt.Sprintf("максимум %d байт", maxPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("хеширование пароля: %w", err)
	}

	created := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, created); err != nil {
		if errors.Is(err, rep.ErrAlreadyExists) {
			return nil, "", NewBusinessError(CodeAlreadyExists, "Пользователь уже существует", ToDetail("email", email))
		}
		return nil, "", fmt.Errorf("создание пользователя: %w", err)
	}

	token, err := s.issueToken(created.ID)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Service: Пользователь зарегистрирован", zap.String("user_id", created.ID.String()))
	return created, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	found, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, "", NewUnauthorized("неверный email или пароль")
		}
		return nil, "", fmt.Errorf("получение пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Service: Неудачная попытка входа", zap.String("user_id", found.ID.String()))
		return nil, "", NewUnauthorized("неверный email или пароль")
	}

	token, err := s.issueToken(found.ID)
	if err != nil {
		return nil, "", err
	}
	return found, token, nil
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := s.clock()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("подпись токена: %w", err)
	}
	return token, nil
}

// ParseToken проверяет подпись и срок действия и возвращает ID пользователя
func (s *AuthService) ParseToken(token string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, NewUnauthorized("недействительный токен")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, NewUnauthorized("недействительный токен")
	}
	return userID, nil
}

// Authenticate проверяет токен и что его владелец всё ещё существует
func (s *AuthService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := s.ParseToken(token)
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return uuid.Nil, NewUnauthorized("пользователь не найден")
		}
		return uuid.Nil, fmt.Errorf("проверка пользователя: %w", err)
	}
	return userID, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("user", userID.String())
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return found, nil
}
