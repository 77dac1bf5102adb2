package service

import (
	"context"

	"revisionHub/internal/models/calendar"
	"revisionHub/internal/models/user"

	"github.com/google/uuid"
)

type CollectionRepository interface {
	HealthCheck(context.Context) error
	Get(context.Context, uuid.UUID) (*calendar.Collection, error)
	Save(context.Context, uuid.UUID, *calendar.Collection) error
	ListUserIDs(context.Context) ([]uuid.UUID, error)
}

type UserRepository interface {
	Create(context.Context, *user.User) error
	GetByID(context.Context, uuid.UUID) (*user.User, error)
	GetByEmail(context.Context, string) (*user.User, error)
}
