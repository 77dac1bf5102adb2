package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AddTask добавляет задачу в конец списка дня и возвращает её позицию.
func (c *Collection) AddTask(dayKey, text string, options ...TaskOption) (int, error) {
	task, err := newTask(dayKey, text, options...)
	if err != nil {
		return 0, err
	}

	c.ensureMaps()
	c.Events[dayKey] = append(c.Events[dayKey], task)
	c.DoneMap[dayKey] = append(c.DoneMap[dayKey], false)
	return len(c.Events[dayKey]) - 1, nil
}

// AddTasks добавляет несколько задач в один день. Вход проверяется целиком до первой вставки.
func (c *Collection) AddTasks(dayKey string, texts []string, options ...TaskOption) ([]int, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("пустой список задач: %w", ErrInvalidInput)
	}

	tasks := make([]TaskRecord, 0, len(texts))
	for _, text := range texts {
		task, err := newTask(dayKey, text, options...)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	c.ensureMaps()
	indexes := make([]int, 0, len(tasks))
	for _, task := range tasks {
		c.Events[dayKey] = append(c.Events[dayKey], task)
		c.DoneMap[dayKey] = append(c.DoneMap[dayKey], false)
		indexes = append(indexes, len(c.Events[dayKey])-1)
	}
	return indexes, nil
}

func newTask(dayKey, text string, options ...TaskOption) (TaskRecord, error) {
	if _, err := ParseDayKey(dayKey); err != nil {
		return TaskRecord{}, err
	}
	if strings.TrimSpace(text) == "" {
		return TaskRecord{}, fmt.Errorf("текст задачи не может быть пустым: %w", ErrInvalidInput)
	}

	task := TaskRecord{
		ID:   uuid.New(),
		Text: text,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&task)
		}
	}

	if task.Category != nil && strings.TrimSpace(*task.Category) == "" {
		return TaskRecord{}, fmt.Errorf("категория не может быть пустой строкой: %w", ErrInvalidInput)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	return task, nil
}

// RemoveTask удаляет задачу по позиции. Позиции следующих задач дня сдвигаются на одну.
func (c *Collection) RemoveTask(dayKey string, index int) (TaskRecord, error) {
	tasks, ok := c.Events[dayKey]
	if !ok || index < 0 || index >= len(tasks) {
		return TaskRecord{}, fmt.Errorf("задача %s/%d: %w", dayKey, index, ErrNotFound)
	}

	removed := tasks[index]
	tasks = slices.Delete(tasks, index, index+1)
	done := c.DoneMap[dayKey]
	if index < len(done) {
		done = slices.Delete(done, index, index+1)
	}

	if len(tasks) == 0 {
		delete(c.Events, dayKey)
		delete(c.DoneMap, dayKey)
		return removed, nil
	}

	c.Events[dayKey] = tasks
	c.DoneMap[dayKey] = done
	return removed, nil
}

// SetCompletion меняет отметку выполнения, Events не затрагивается.
func (c *Collection) SetCompletion(dayKey string, index int, completed bool) error {
	done, ok := c.DoneMap[dayKey]
	if !ok || index < 0 || index >= len(done) {
		return fmt.Errorf("отметка %s/%d: %w", dayKey, index, ErrNotFound)
	}
	done[index] = completed
	return nil
}

// IndexOf находит текущую позицию задачи по её ID.
func (c *Collection) IndexOf(dayKey string, id uuid.UUID) (int, error) {
	for i, t := range c.Events[dayKey] {
		if t.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("задача %s/%s: %w", dayKey, id, ErrNotFound)
}

func (c *Collection) RemoveTaskByID(dayKey string, id uuid.UUID) (TaskRecord, error) {
	index, err := c.IndexOf(dayKey, id)
	if err != nil {
		return TaskRecord{}, err
	}
	return c.RemoveTask(dayKey, index)
}

func (c *Collection) SetCompletionByID(dayKey string, id uuid.UUID, completed bool) error {
	index, err := c.IndexOf(dayKey, id)
	if err != nil {
		return err
	}
	return c.SetCompletion(dayKey, index, completed)
}

// SetDayType перезаписывает тип дня. Ограничения на прошлые даты - забота UI.
func (c *Collection) SetDayType(dayKey string, dayType DayType) error {
	if _, err := ParseDayKey(dayKey); err != nil {
		return err
	}
	if !dayType.Valid() {
		return fmt.Errorf("тип дня %q: %w", dayType, ErrInvalidInput)
	}

	c.ensureMaps()
	c.DayTypes[dayKey] = dayType
	return nil
}

// DayTypeOf возвращает тип дня, по умолчанию work.
func (c *Collection) DayTypeOf(dayKey string) DayType {
	if dayType, ok := c.DayTypes[dayKey]; ok {
		return dayType
	}
	return DayWork
}

// AddCategory добавляет категорию, если её ещё нет. Возвращает true, если набор изменился.
func (c *Collection) AddCategory(name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, fmt.Errorf("имя категории не может быть пустым: %w", ErrInvalidInput)
	}
	if slices.Contains(c.Categories, name) {
		return false, nil
	}
	c.Categories = append(c.Categories, name)
	return true, nil
}

// RemoveCategory убирает категорию из набора. Задачи с этой категорией остаются как есть.
func (c *Collection) RemoveCategory(name string) bool {
	index := slices.Index(c.Categories, name)
	if index < 0 {
		return false
	}
	c.Categories = slices.Delete(c.Categories, index, index+1)
	return true
}
