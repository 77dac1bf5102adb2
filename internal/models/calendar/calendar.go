package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DayType string

const DayWork DayType = "work"
const DayVacation DayType = "vacation"
const DaySickness DayType = "sickness"

func (d DayType) Valid() bool {
	switch d {
	case DayWork, DayVacation, DaySickness:
		return true
	}
	return false
}

// DefaultCategory - категория, с которой создаётся каждая новая коллекция
const DefaultCategory = "codeforces"

// TaskRecord - задача дня. Адресуется позицией в списке дня, ID стабилен между сохранениями.
type TaskRecord struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Category  *string   `json:"category"`
	CreatedAt time.Time `json:"timestamp"`
}

func (t TaskRecord) InCategory(category string) bool {
	return t.Category != nil && *t.Category == category
}

// Collection - календарь задач одного пользователя.
//
// Events и DoneMap выровнены по позициям: для каждого дня длины списков совпадают,
// день без задач отсутствует в обеих картах.
type Collection struct {
	Events     map[string][]TaskRecord `json:"events"`
	DoneMap    map[string][]bool       `json:"doneMap"`
	Categories []string                `json:"categories"`
	DayTypes   map[string]DayType      `json:"dayTypes"`
}

// NewCollection создаёт пустую коллекцию с категорией по умолчанию и типами дней
// для месяца, в который попадает reference.
func NewCollection(reference time.Time) *Collection {
	c := &Collection{
		Events:     make(map[string][]TaskRecord),
		DoneMap:    make(map[string][]bool),
		Categories: []string{DefaultCategory},
		DayTypes:   make(map[string]DayType),
	}
	c.SeedDayTypes(reference)
	return c
}

// DefaultDayType - тип дня по умолчанию для i-го числа месяца
func DefaultDayType(dayOfMonth int) DayType {
	if dayOfMonth%6 == 0 {
		return DayVacation
	}
	if dayOfMonth%13 == 0 {
		return DaySickness
	}
	return DayWork
}

// SeedDayTypes проставляет типы по умолчанию для всех дней месяца reference,
// не трогая уже заданные. Возвращает количество добавленных дней.
func (c *Collection) SeedDayTypes(reference time.Time) int {
	c.ensureMaps()

	month := MonthRange(reference)
	added := 0
	for day := month.Start; !day.After(month.End); day = day.AddDate(0, 0, 1) {
		key := DayKey(day)
		if _, ok := c.DayTypes[key]; ok {
			continue
		}
		c.DayTypes[key] = DefaultDayType(day.Day())
		added++
	}
	return added
}

func (c *Collection) ensureMaps() {
	if c.Events == nil {
		c.Events = make(map[string][]TaskRecord)
	}
	if c.DoneMap == nil {
		c.DoneMap = make(map[string][]bool)
	}
	if c.DayTypes == nil {
		c.DayTypes = make(map[string]DayType)
	}
	if c.Categories == nil {
		c.Categories = []string{}
	}
}

// Clone возвращает глубокую копию коллекции.
func (c *Collection) Clone() *Collection {
	clone := &Collection{
		Events:     make(map[string][]TaskRecord, len(c.Events)),
		DoneMap:    make(map[string][]bool, len(c.DoneMap)),
		Categories: slices.Clone(c.Categories),
		DayTypes:   make(map[string]DayType, len(c.DayTypes)),
	}
	if clone.Categories == nil {
		clone.Categories = []string{}
	}

	for day, tasks := range c.Events {
		copied := make([]TaskRecord, len(tasks))
		for i, t := range tasks {
			copied[i] = t
			if t.Category != nil {
				category := *t.Category
				copied[i].Category = &category
			}
		}
		clone.Events[day] = copied
	}
	for day, done := range c.DoneMap {
		clone.DoneMap[day] = slices.Clone(done)
	}
	for day, dayType := range c.DayTypes {
		clone.DayTypes[day] = dayType
	}
	return clone
}

// Normalize приводит коллекцию, пришедшую от клиента, к рабочему виду:
// выдаёт ID задачам без него, убирает пустые дни и дубликаты категорий.
// Несовпадение длин не исправляется, его ловит Validate.
func (c *Collection) Normalize() {
	c.ensureMaps()

	for day, tasks := range c.Events {
		if len(tasks) == 0 && len(c.DoneMap[day]) == 0 {
			delete(c.Events, day)
			delete(c.DoneMap, day)
			continue
		}
		for i := range tasks {
			if tasks[i].ID == uuid.Nil {
				tasks[i].ID = uuid.New()
			}
		}
	}
	for day, done := range c.DoneMap {
		if _, ok := c.Events[day]; !ok && len(done) == 0 {
			delete(c.DoneMap, day)
		}
	}

	categories := make([]string, 0, len(c.Categories))
	for _, name := range c.Categories {
		if !slices.Contains(categories, name) {
			categories = append(categories, name)
		}
	}
	c.Categories = categories
}

// Validate проверяет инварианты коллекции.
func (c *Collection) Validate() error {
	for day, tasks := range c.Events {
		if _, err := ParseDayKey(day); err != nil {
			return err
		}
		if len(c.DoneMap[day]) != len(tasks) {
			return fmt.Errorf("день %s: %d задач и %d отметок: %w", day, len(tasks), len(c.DoneMap[day]), ErrInvalidInput)
		}
		for i, t := range tasks {
			if strings.TrimSpace(t.Text) == "" {
				return fmt.Errorf("день %s, задача %d: пустой текст: %w", day, i, ErrInvalidInput)
			}
			if t.Category != nil && strings.TrimSpace(*t.Category) == "" {
				return fmt.Errorf("день %s, задача %d: пустая категория: %w", day, i, ErrInvalidInput)
			}
		}
	}
	for day, done := range c.DoneMap {
		if _, ok := c.Events[day]; !ok && len(done) > 0 {
			return fmt.Errorf("день %s: отметки без задач: %w", day, ErrInvalidInput)
		}
	}
	for day, dayType := range c.DayTypes {
		if _, err := ParseDayKey(day); err != nil {
			return err
		}
		if !dayType.Valid() {
			return fmt.Errorf("день %s: тип %q: %w", day, dayType, ErrInvalidInput)
		}
	}
	for _, name := range c.Categories {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("пустое имя категории: %w", ErrInvalidInput)
		}
	}
	return nil
}
