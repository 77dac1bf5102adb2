package inmemory

import (
	"context"
	"strings"
	"sync"
	"time"

	"revisionHub/internal/models/user"
	repo "revisionHub/internal/repository"

	"github.com/google/uuid"
)

type UserStorage struct {
	storage map[uuid.UUID]*user.User
	emails  map[string]uuid.UUID
	mtx     *sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage: make(map[uuid.UUID]*user.User),
		emails:  make(map[string]uuid.UUID),
		mtx:     &sync.RWMutex{},
	}
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	email := strings.ToLower(userToCreate.Email)
	if _, ok := s.emails[email]; ok {
		return repo.ErrAlreadyExists
	}

	now := time.Now()
	userToCreate.CreatedAt = now
	userToCreate.UpdatedAt = now

	stored := *userToCreate
	s.storage[stored.ID] = &stored
	s.emails[email] = stored.ID
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	userToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	found := *userToGet
	return &found, nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, repo.ErrNotFound
	}
	found := *s.storage[id]
	return &found, nil
}
