package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revisionHub/internal/logger"
	"revisionHub/internal/models/calendar"
	repo "revisionHub/internal/repository"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func (s *Storage) Get(ctx context.Context, userID uuid.UUID) (*calendar.Collection, error) {
	start := time.Now()
	defer warnIfSlow("get_calendar", start)

	query := `SELECT document
				FROM user_calendars
				WHERE user_id = $1`

	var document []byte
	err := s.pool.QueryRow(ctx, query, userID).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить календарь", err,
			zap.String("user_id", userID.String()),
			zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение календаря: %w", err)
	}

	collection := &calendar.Collection{}
	if err := json.Unmarshal(document, collection); err != nil {
		logger.Error("Repository: Повреждённый документ календаря", err, zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("чтение документа: %w", err)
	}
	return collection, nil
}

// Save перезаписывает документ целиком, версий нет: последняя запись побеждает
func (s *Storage) Save(ctx context.Context, userID uuid.UUID, collection *calendar.Collection) error {
	start := time.Now()
	defer warnIfSlow("save_calendar", start)

	document, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("сериализация документа: %w", err)
	}

	query := `INSERT INTO user_calendars (user_id, document)
				VALUES ($1, $2)
				ON CONFLICT (user_id) DO UPDATE
				SET document = EXCLUDED.document,
					updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, userID, document); err != nil {
		logger.Error("Repository: Не удалось сохранить календарь", err,
			zap.String("user_id", userID.String()),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("сохранение календаря: %w", err)
	}
	return nil
}

func (s *Storage) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	start := time.Now()
	defer warnIfSlow("list_calendars", start)

	rows, err := s.pool.Query(ctx, `SELECT user_id FROM user_calendars ORDER BY user_id`)
	if err != nil {
		logger.Error("Repository: Не удалось получить список календарей", err)
		return nil, fmt.Errorf("получение списка календарей: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return ids, nil
}
