package calendar

import (
	"fmt"
	"time"
)

// DayKeyLayout - канонический формат ключа дня
const DayKeyLayout = "2006-01-02"

// DayKey возвращает ключ календарного дня для t в его собственной временной зоне.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey разбирает ключ дня и возвращает полночь этого дня в UTC.
func ParseDayKey(key string) (time.Time, error) {
	day, err := time.Parse(DayKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("ключ дня %q: %w", key, ErrInvalidInput)
	}
	return day, nil
}

// dateOnly отбрасывает время суток, сохраняя календарную дату t
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
