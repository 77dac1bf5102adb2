package calendar

import "time"

type Coverage struct {
	Completed int `json:"completed"`
	Left      int `json:"left"`
}

func (c Coverage) Total() int {
	return c.Completed + c.Left
}

// Range - включительный диапазон календарных дней
type Range struct {
	Start time.Time
	End   time.Time
}

func DayRange(reference time.Time) Range {
	day := dateOnly(reference)
	return Range{Start: day, End: day}
}

func MonthRange(reference time.Time) Range {
	y, m, _ := reference.Date()
	return Range{
		Start: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC),
	}
}

func YearRange(reference time.Time) Range {
	y := reference.Year()
	return Range{
		Start: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Coverage считает выполненные и оставшиеся задачи за дни [start, end].
// Пустая category означает все задачи. Диапазон без задач даёт нули.
// Обходятся только сохранённые дни, поэтому ширина диапазона на стоимость не влияет.
func (c *Collection) Coverage(start, end time.Time, category string) Coverage {
	var result Coverage

	first, last := dateOnly(start), dateOnly(end)
	if last.Before(first) {
		return result
	}

	for key, tasks := range c.Events {
		day, err := ParseDayKey(key)
		if err != nil || day.Before(first) || day.After(last) {
			continue
		}

		done := c.DoneMap[key]
		for i, t := range tasks {
			if category != "" && !t.InCategory(category) {
				continue
			}
			if i < len(done) && done[i] {
				result.Completed++
			} else {
				result.Left++
			}
		}
	}
	return result
}

func (c *Collection) CoverageIn(r Range, category string) Coverage {
	return c.Coverage(r.Start, r.End, category)
}

type PeriodCoverage struct {
	Day   Coverage `json:"day"`
	Month Coverage `json:"month"`
	Year  Coverage `json:"year"`
}

type CategoryCoverage struct {
	Name     string         `json:"name"`
	Coverage PeriodCoverage `json:"coverage"`
}

// Summary.Categories идёт в порядке набора категорий, как его показывает UI
type Summary struct {
	Date       string             `json:"date"`
	DayType    DayType            `json:"dayType"`
	Overall    PeriodCoverage     `json:"overall"`
	Categories []CategoryCoverage `json:"categories"`
}

func (s Summary) Category(name string) (PeriodCoverage, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c.Coverage, true
		}
	}
	return PeriodCoverage{}, false
}

func (c *Collection) periodCoverage(reference time.Time, category string) PeriodCoverage {
	return PeriodCoverage{
		Day:   c.CoverageIn(DayRange(reference), category),
		Month: c.CoverageIn(MonthRange(reference), category),
		Year:  c.CoverageIn(YearRange(reference), category),
	}
}

// Summary собирает статистику за день, месяц и год reference,
// отдельно по каждой категории из набора.
func (c *Collection) Summary(reference time.Time) Summary {
	key := DayKey(dateOnly(reference))
	summary := Summary{
		Date:       key,
		DayType:    c.DayTypeOf(key),
		Overall:    c.periodCoverage(reference, ""),
		Categories: make([]CategoryCoverage, 0, len(c.Categories)),
	}
	for _, category := range c.Categories {
		summary.Categories = append(summary.Categories, CategoryCoverage{
			Name:     category,
			Coverage: c.periodCoverage(reference, category),
		})
	}
	return summary
}
