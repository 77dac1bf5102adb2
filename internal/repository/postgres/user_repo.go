package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"revisionHub/internal/logger"
	"revisionHub/internal/models/user"
	repo "revisionHub/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func (s *Storage) Create(ctx context.Context, userToCreate *user.User) error {
	start := time.Now()
	defer warnIfSlow("create_user", start)

	query := `INSERT INTO users (id, name, email, password_hash)
				VALUES ($1, $2, $3, $4)
				RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		userToCreate.ID,
		userToCreate.Name,
		strings.ToLower(userToCreate.Email),
		userToCreate.PasswordHash,
	).Scan(&userToCreate.CreatedAt, &userToCreate.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить пользователя", err)
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getUser(ctx, `WHERE email = $1`, strings.ToLower(email))
}

func (s *Storage) getUser(ctx context.Context, where string, arg any) (*user.User, error) {
	start := time.Now()
	defer warnIfSlow("get_user", start)

	query := `SELECT id, name, email, password_hash, created_at, updated_at
				FROM users ` + where

	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	found, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[user.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return found, nil
}
