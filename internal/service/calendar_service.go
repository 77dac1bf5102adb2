package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"revisionHub/internal/logger"
	"revisionHub/internal/models/calendar"
	rep "revisionHub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CalendarService выполняет цикл чтение - изменение - сохранение календаря пользователя.
// Сама логика календаря живёт в calendar.Collection.
type CalendarService struct {
	repo  CollectionRepository
	clock func() time.Time
	locks *userLocks
}

func NewCalendarService(repo CollectionRepository, options ...Option) *CalendarService {
	s := &CalendarService{
		repo:  repo,
		clock: time.Now,
		locks: newUserLocks(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// TaskRef указывает задачу дня позицией или стабильным ID. ID, если задан, важнее позиции.
type TaskRef struct {
	Index int
	ID    uuid.UUID
}

func (r TaskRef) String() string {
	if r.ID != uuid.Nil {
		return r.ID.String()
	}
	return strconv.Itoa(r.Index)
}

// CollectionPatch - подмножество полей для замены. nil означает "не менять".
type CollectionPatch struct {
	Events     map[string][]calendar.TaskRecord
	DoneMap    map[string][]bool
	Categories []string
	DayTypes   map[string]calendar.DayType
}

func (p CollectionPatch) Empty() bool {
	return p.Events == nil && p.DoneMap == nil && p.Categories == nil && p.DayTypes == nil
}

func (s *CalendarService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *CalendarService) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repo.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}
	return ids, nil
}

// load возвращает сохранённый календарь или новый, если его ещё нет
func (s *CalendarService) load(ctx context.Context, userID uuid.UUID) (*calendar.Collection, bool, error) {
	collection, err := s.repo.Get(ctx, userID)
	if err == nil {
		return collection, false, nil
	}
	if errors.Is(err, rep.ErrNotFound) {
		logger.Info("Service: Создание календаря по умолчанию", zap.String("user_id", userID.String()))
		return calendar.NewCollection(s.clock()), true, nil
	}
	return nil, false, fmt.Errorf("получение календаря: %w", err)
}

func (s *CalendarService) save(ctx context.Context, userID uuid.UUID, collection *calendar.Collection) error {
	if err := s.repo.Save(ctx, userID, collection); err != nil {
		return fmt.Errorf("сохранение календаря: %w", err)
	}
	return nil
}

// mutate применяет fn к календарю под блокировкой пользователя и сохраняет результат
func (s *CalendarService) mutate(ctx context.Context, userID uuid.UUID, fn func(*calendar.Collection) error) (*calendar.Collection, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	collection, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(collection); err != nil {
		return nil, err
	}
	if err := s.save(ctx, userID, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *CalendarService) GetCollection(ctx context.Context, userID uuid.UUID) (*calendar.Collection, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	collection, created, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.save(ctx, userID, collection); err != nil {
			return nil, err
		}
	}
	return collection, nil
}

// ReplaceCollection заменяет переданные поля целиком и проверяет результат до сохранения.
func (s *CalendarService) ReplaceCollection(ctx context.Context, userID uuid.UUID, patch CollectionPatch) (*calendar.Collection, error) {
	if patch.Empty() {
		return nil, NewValidationError("body", "нет полей для обновления")
	}

	return s.mutate(ctx, userID, func(c *calendar.Collection) error {
		if patch.Events != nil {
			c.Events = patch.Events
		}
		if patch.DoneMap != nil {
			c.DoneMap = patch.DoneMap
		}
		if patch.Categories != nil {
			c.Categories = patch.Categories
		}
		if patch.DayTypes != nil {
			c.DayTypes = patch.DayTypes
		}

		c.Normalize()
		if err := c.Validate(); err != nil {
			logger.Warn("Service: Отклонена замена календаря",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			return NewValidationError("collection", err.Error())
		}
		return nil
	})
}

func (s *CalendarService) AddTasks(ctx context.Context, userID uuid.UUID, dayKey string, texts []string, options ...calendar.TaskOption) ([]int, error) {
	var indexes []int
	_, err := s.mutate(ctx, userID, func(c *calendar.Collection) error {
		added, err := c.AddTasks(dayKey, texts, options...)
		if err != nil {
			return translate(err, "texts", "задача", dayKey)
		}
		indexes = added
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Service: Задачи добавлены",
		zap.String("user_id", userID.String()),
		zap.String("day", dayKey),
		zap.Int("count", len(indexes)))
	return indexes, nil
}

func (s *CalendarService) SetCompletion(ctx context.Context, userID uuid.UUID, dayKey string, ref TaskRef, completed bool) error {
	_, err := s.mutate(ctx, userID, func(c *calendar.Collection) error {
		var err error
		if ref.ID != uuid.Nil {
			err = c.SetCompletionByID(dayKey, ref.ID, completed)
		} else {
			err = c.SetCompletion(dayKey, ref.Index, completed)
		}
		if err != nil {
			return translate(err, "date", "задача", dayKey+"/"+ref.String())
		}
		return nil
	})
	return err
}

func (s *CalendarService) DeleteTask(ctx context.Context, userID uuid.UUID, dayKey string, ref TaskRef) (calendar.TaskRecord, error) {
	var removed calendar.TaskRecord
	_, err := s.mutate(ctx, userID, func(c *calendar.Collection) error {
		var err error
		if ref.ID != uuid.Nil {
			removed, err = c.RemoveTaskByID(dayKey, ref.ID)
		} else {
			removed, err = c.RemoveTask(dayKey, ref.Index)
		}
		if err != nil {
			return translate(err, "date", "задача", dayKey+"/"+ref.String())
		}
		return nil
	})
	if err != nil {
		return calendar.TaskRecord{}, err
	}

	logger.Info("Service: Задача удалена",
		zap.String("user_id", userID.String()),
		zap.String("day", dayKey),
		zap.String("task_id", removed.ID.String()))
	return removed, nil
}

func (s *CalendarService) SetDayType(ctx context.Context, userID uuid.UUID, dayKey string, dayType calendar.DayType) error {
	_, err := s.mutate(ctx, userID, func(c *calendar.Collection) error {
		if err := c.SetDayType(dayKey, dayType); err != nil {
			return translate(err, "type", "день", dayKey)
		}
		return nil
	})
	return err
}

func (s *CalendarService) AddCategory(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	var added bool
	_, err := s.mutate(ctx, userID, func(c *calendar.Collection) error {
		var err error
		added, err = c.AddCategory(name)
		if err != nil {
			return translate(err, "name", "категория", name)
		}
		return nil
	})
	return added, err
}

// RemoveCategory убирает категорию из набора, задачи с ней остаются без изменений
func (s *CalendarService) RemoveCategory(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	var removed bool
	_, err := s.mutate(ctx, userID, func(c *calendar.Collection) error {
		removed = c.RemoveCategory(name)
		return nil
	})
	return removed, err
}

// Coverage не создаёт календарь: у нового пользователя статистика нулевая
func (s *CalendarService) Coverage(ctx context.Context, userID uuid.UUID, start, end time.Time, category string) (calendar.Coverage, error) {
	collection, _, err := s.load(ctx, userID)
	if err != nil {
		return calendar.Coverage{}, err
	}
	return collection.Coverage(start, end, category), nil
}

// Summary считает статистику относительно reference, нулевой reference означает сегодня
func (s *CalendarService) Summary(ctx context.Context, userID uuid.UUID, reference time.Time) (calendar.Summary, error) {
	if reference.IsZero() {
		reference = s.clock()
	}
	collection, _, err := s.load(ctx, userID)
	if err != nil {
		return calendar.Summary{}, err
	}
	return collection.Summary(reference), nil
}

// SeedMonth проставляет типы дней по умолчанию для месяца reference в уже существующем
// календаре. Отсутствующие календари не создаются.
func (s *CalendarService) SeedMonth(ctx context.Context, userID uuid.UUID, reference time.Time) (int, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	collection, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("получение календаря: %w", err)
	}

	added := collection.SeedDayTypes(reference)
	if added == 0 {
		return 0, nil
	}
	if err := s.save(ctx, userID, collection); err != nil {
		return 0, err
	}
	return added, nil
}

// translate переводит ошибки календаря в бизнес-ошибки
func translate(err error, field, resource, id string) error {
	switch {
	case errors.Is(err, calendar.ErrInvalidInput):
		return NewValidationError(field, err.Error())
	case errors.Is(err, calendar.ErrNotFound):
		notFound := NewNotFound(resource, id)
		notFound.Err = err
		return notFound
	default:
		return err
	}
}
