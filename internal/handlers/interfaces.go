package handlers

import (
	"context"
	"time"

	"revisionHub/internal/models/calendar"
	"revisionHub/internal/models/user"
	"revisionHub/internal/service"

	"github.com/google/uuid"
)

type CalendarService interface {
	HealthCheck(context.Context) error
	GetCollection(context.Context, uuid.UUID) (*calendar.Collection, error)
	ReplaceCollection(context.Context, uuid.UUID, service.CollectionPatch) (*calendar.Collection, error)
	AddTasks(context.Context, uuid.UUID, string, []string, ...calendar.TaskOption) ([]int, error)
	SetCompletion(context.Context, uuid.UUID, string, service.TaskRef, bool) error
	DeleteTask(context.Context, uuid.UUID, string, service.TaskRef) (calendar.TaskRecord, error)
	SetDayType(context.Context, uuid.UUID, string, calendar.DayType) error
	AddCategory(context.Context, uuid.UUID, string) (bool, error)
	RemoveCategory(context.Context, uuid.UUID, string) (bool, error)
	Coverage(context.Context, uuid.UUID, time.Time, time.Time, string) (calendar.Coverage, error)
	Summary(context.Context, uuid.UUID, time.Time) (calendar.Summary, error)
}

type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (*user.User, string, error)
	Login(ctx context.Context, email, password string) (*user.User, string, error)
	Me(ctx context.Context, userID uuid.UUID) (*user.User, error)
}
