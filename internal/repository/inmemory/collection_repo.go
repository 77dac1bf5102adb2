package inmemory

import (
	"context"
	"fmt"
	"sync"

	"revisionHub/internal/logger"
	"revisionHub/internal/models/calendar"
	repo "revisionHub/internal/repository"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// CollectionStorage хранит календари JSON-документами, как и postgres.
// Get всегда возвращает независимую копию.
type CollectionStorage struct {
	storage map[uuid.UUID][]byte
	mtx     *sync.RWMutex
}

func NewCollectionStorage() *CollectionStorage {
	return &CollectionStorage{
		storage: make(map[uuid.UUID][]byte),
		mtx:     &sync.RWMutex{},
	}
}

func (s *CollectionStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *CollectionStorage) Get(ctx context.Context, userID uuid.UUID) (*calendar.Collection, error) {
	s.mtx.RLock()
	document, ok := s.storage[userID]
	s.mtx.RUnlock()

	if !ok {
		return nil, repo.ErrNotFound
	}

	collection := &calendar.Collection{}
	if err := json.Unmarshal(document, collection); err != nil {
		return nil, fmt.Errorf("чтение документа: %w", err)
	}
	return collection, nil
}

// Save целиком перезаписывает документ пользователя, последняя запись побеждает
func (s *CollectionStorage) Save(ctx context.Context, userID uuid.UUID, collection *calendar.Collection) error {
	document, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("сериализация документа: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[userID] = document
	return nil
}

func (s *CollectionStorage) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.storage))
	for id := range s.storage {
		ids = append(ids, id)
	}
	return ids, nil
}
