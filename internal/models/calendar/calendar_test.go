package calendar_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"revisionHub/internal/models/calendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func assertAligned(t *testing.T, c *calendar.Collection) {
	t.Helper()
	for day, tasks := range c.Events {
		assert.Len(t, c.DoneMap[day], len(tasks), "день %s", day)
		assert.NotEmpty(t, tasks, "день %s", day)
	}
	for day := range c.DoneMap {
		_, ok := c.Events[day]
		assert.True(t, ok, "отметки без задач для %s", day)
	}
}

// TestNewCollection тестирует создание коллекции по умолчанию
func TestNewCollection(t *testing.T) {
	c := calendar.NewCollection(time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC))

	assert.Empty(t, c.Events)
	assert.Empty(t, c.DoneMap)
	assert.Equal(t, []string{calendar.DefaultCategory}, c.Categories)

	// 2024 - високосный год, только реальные дни февраля
	assert.Len(t, c.DayTypes, 29)
	assert.Equal(t, calendar.DayVacation, c.DayTypes["2024-02-06"])
	assert.Equal(t, calendar.DaySickness, c.DayTypes["2024-02-13"])
	assert.Equal(t, calendar.DayVacation, c.DayTypes["2024-02-12"])
	assert.Equal(t, calendar.DayWork, c.DayTypes["2024-02-01"])
	_, ok := c.DayTypes["2024-03-01"]
	assert.False(t, ok)
}

// TestDefaultDayType тестирует классификацию дней месяца по умолчанию
func TestDefaultDayType(t *testing.T) {
	tests := []struct {
		day      int
		expected calendar.DayType
	}{
		{1, calendar.DayWork},
		{6, calendar.DayVacation},
		{13, calendar.DaySickness},
		{18, calendar.DayVacation},
		{26, calendar.DaySickness},
		{30, calendar.DayVacation},
		{31, calendar.DayWork},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, calendar.DefaultDayType(tt.day), "день %d", tt.day)
	}
}

// TestSeedDayTypes тестирует, что посев не перезаписывает заданные типы
func TestSeedDayTypes(t *testing.T) {
	c := calendar.NewCollection(march)
	require.NoError(t, c.SetDayType("2024-04-02", calendar.DaySickness))

	added := c.SeedDayTypes(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 29, added)
	assert.Equal(t, calendar.DaySickness, c.DayTypes["2024-04-02"])
	assert.Equal(t, 0, c.SeedDayTypes(time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)))
}

// TestDayKey тестирует канонический ключ дня
func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-03-10", calendar.DayKey(march))

	day, err := calendar.ParseDayKey("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", calendar.DayKey(day))

	for _, bad := range []string{"", "Sun Mar 10 2024", "2024-3-10", "2024-02-30"} {
		_, err := calendar.ParseDayKey(bad)
		assert.ErrorIs(t, err, calendar.ErrInvalidInput, bad)
	}
}

// TestCollection_AddTask тестирует добавление задачи
func TestCollection_AddTask(t *testing.T) {
	tests := []struct {
		name        string
		dayKey      string
		text        string
		options     []calendar.TaskOption
		expectError error
	}{
		{
			name:   "success - plain task",
			dayKey: "2024-03-10",
			text:   "Read ch.1",
		},
		{
			name:    "success - with category",
			dayKey:  "2024-03-10",
			text:    "Solve problems",
			options: []calendar.TaskOption{calendar.WithCategory("codeforces")},
		},
		{
			name:        "error - empty text",
			dayKey:      "2024-03-10",
			text:        "   ",
			expectError: calendar.ErrInvalidInput,
		},
		{
			name:        "error - empty category",
			dayKey:      "2024-03-10",
			text:        "Solve problems",
			options:     []calendar.TaskOption{calendar.WithCategory("")},
			expectError: calendar.ErrInvalidInput,
		},
		{
			name:        "error - malformed day key",
			dayKey:      "10.03.2024",
			text:        "Read ch.1",
			expectError: calendar.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := calendar.NewCollection(march)

			index, err := c.AddTask(tt.dayKey, tt.text, tt.options...)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Empty(t, c.Events)
				assert.Empty(t, c.DoneMap)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, index)
			require.Len(t, c.Events[tt.dayKey], 1)
			assert.Equal(t, []bool{false}, c.DoneMap[tt.dayKey])

			task := c.Events[tt.dayKey][0]
			assert.Equal(t, tt.text, task.Text)
			assert.NotEqual(t, uuid.Nil, task.ID)
			assert.False(t, task.CreatedAt.IsZero())
		})
	}
}

// TestCollection_AddTask_KeepsExistingIndexes тестирует, что добавление не сдвигает старые задачи
func TestCollection_AddTask_KeepsExistingIndexes(t *testing.T) {
	c := calendar.NewCollection(march)
	created := time.Date(2024, time.March, 9, 8, 0, 0, 0, time.UTC)

	_, err := c.AddTask("2024-03-10", "first", calendar.WithCreatedAt(created))
	require.NoError(t, err)
	require.NoError(t, c.SetCompletion("2024-03-10", 0, true))

	index, err := c.AddTask("2024-03-10", "second")
	require.NoError(t, err)

	assert.Equal(t, 1, index)
	assert.Equal(t, "first", c.Events["2024-03-10"][0].Text)
	assert.Equal(t, created, c.Events["2024-03-10"][0].CreatedAt)
	assert.Equal(t, []bool{true, false}, c.DoneMap["2024-03-10"])
}

// TestCollection_AddTasks тестирует пакетное добавление
func TestCollection_AddTasks(t *testing.T) {
	t.Run("success - appends in order", func(t *testing.T) {
		c := calendar.NewCollection(march)
		_, err := c.AddTask("2024-03-10", "existing")
		require.NoError(t, err)

		indexes, err := c.AddTasks("2024-03-10", []string{"a", "b", "c"}, calendar.WithCategory("math"))

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, indexes)
		assert.Len(t, c.Events["2024-03-10"], 4)
		assert.Equal(t, "c", c.Events["2024-03-10"][3].Text)
		assert.True(t, c.Events["2024-03-10"][2].InCategory("math"))
		assertAligned(t, c)
	})

	t.Run("error - malformed text rejected before any insertion", func(t *testing.T) {
		c := calendar.NewCollection(march)

		_, err := c.AddTasks("2024-03-10", []string{"a", "", "c"})

		assert.ErrorIs(t, err, calendar.ErrInvalidInput)
		assert.Empty(t, c.Events)
		assert.Empty(t, c.DoneMap)
	})

	t.Run("error - empty list", func(t *testing.T) {
		c := calendar.NewCollection(march)
		_, err := c.AddTasks("2024-03-10", nil)
		assert.ErrorIs(t, err, calendar.ErrInvalidInput)
	})

	t.Run("tasks get distinct ids", func(t *testing.T) {
		c := calendar.NewCollection(march)
		_, err := c.AddTasks("2024-03-10", []string{"a", "b"})
		require.NoError(t, err)
		assert.NotEqual(t, c.Events["2024-03-10"][0].ID, c.Events["2024-03-10"][1].ID)
	})
}

// TestCollection_RemoveTask тестирует удаление задачи
func TestCollection_RemoveTask(t *testing.T) {
	t.Run("removing index 0 shifts the next task", func(t *testing.T) {
		c := calendar.NewCollection(march)
		_, err := c.AddTasks("2024-03-10", []string{"Read ch.1", "Read ch.2"})
		require.NoError(t, err)
		require.NoError(t, c.SetCompletion("2024-03-10", 1, true))
		secondID := c.Events["2024-03-10"][1].ID

		removed, err := c.RemoveTask("2024-03-10", 0)

		require.NoError(t, err)
		assert.Equal(t, "Read ch.1", removed.Text)
		require.Len(t, c.Events["2024-03-10"], 1)
		assert.Equal(t, secondID, c.Events["2024-03-10"][0].ID)
		assert.Equal(t, []bool{true}, c.DoneMap["2024-03-10"])
	})

	t.Run("removing the last task drops the day", func(t *testing.T) {
		c := calendar.NewCollection(march)
		_, err := c.AddTask("2024-03-10", "only")
		require.NoError(t, err)

		_, err = c.RemoveTask("2024-03-10", 0)

		require.NoError(t, err)
		_, inEvents := c.Events["2024-03-10"]
		_, inDone := c.DoneMap["2024-03-10"]
		assert.False(t, inEvents)
		assert.False(t, inDone)
		assert.Equal(t, calendar.Coverage{}, c.Coverage(march, march, ""))
	})

	t.Run("error - not found", func(t *testing.T) {
		c := calendar.NewCollection(march)
		_, err := c.AddTask("2024-03-10", "only")
		require.NoError(t, err)

		for _, index := range []int{-1, 1, 5} {
			_, err := c.RemoveTask("2024-03-10", index)
			assert.ErrorIs(t, err, calendar.ErrNotFound)
		}
		_, err = c.RemoveTask("2024-03-11", 0)
		assert.ErrorIs(t, err, calendar.ErrNotFound)
		assert.Len(t, c.Events["2024-03-10"], 1)
	})
}

// TestCollection_SetCompletion тестирует отметку выполнения
func TestCollection_SetCompletion(t *testing.T) {
	c := calendar.NewCollection(march)
	_, err := c.AddTasks("2024-03-10", []string{"a", "b"})
	require.NoError(t, err)

	require.NoError(t, c.SetCompletion("2024-03-10", 1, true))
	assert.Equal(t, []bool{false, true}, c.DoneMap["2024-03-10"])

	require.NoError(t, c.SetCompletion("2024-03-10", 1, false))
	assert.Equal(t, []bool{false, false}, c.DoneMap["2024-03-10"])

	assert.ErrorIs(t, c.SetCompletion("2024-03-10", 2, true), calendar.ErrNotFound)
	assert.ErrorIs(t, c.SetCompletion("2024-03-11", 0, true), calendar.ErrNotFound)
	assert.Len(t, c.Events["2024-03-10"], 2)
}

// TestCollection_ByID тестирует адресацию задач по стабильному ID
func TestCollection_ByID(t *testing.T) {
	c := calendar.NewCollection(march)
	_, err := c.AddTasks("2024-03-10", []string{"a", "b", "c"})
	require.NoError(t, err)
	idC := c.Events["2024-03-10"][2].ID

	_, err = c.RemoveTask("2024-03-10", 0)
	require.NoError(t, err)

	index, err := c.IndexOf("2024-03-10", idC)
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	require.NoError(t, c.SetCompletionByID("2024-03-10", idC, true))
	assert.Equal(t, []bool{false, true}, c.DoneMap["2024-03-10"])

	removed, err := c.RemoveTaskByID("2024-03-10", idC)
	require.NoError(t, err)
	assert.Equal(t, "c", removed.Text)

	_, err = c.IndexOf("2024-03-10", idC)
	assert.ErrorIs(t, err, calendar.ErrNotFound)
	assert.ErrorIs(t, c.SetCompletionByID("2024-03-10", uuid.New(), true), calendar.ErrNotFound)
}

// TestCollection_LengthInvariant прогоняет случайную последовательность операций
func TestCollection_LengthInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	c := calendar.NewCollection(march)
	days := []string{"2024-03-08", "2024-03-09", "2024-03-10"}

	for i := 0; i < 500; i++ {
		day := days[rnd.Intn(len(days))]
		switch rnd.Intn(3) {
		case 0:
			_, err := c.AddTask(day, "task")
			require.NoError(t, err)
		case 1:
			n := len(c.Events[day])
			_, err := c.RemoveTask(day, rnd.Intn(n+1))
			if n == 0 {
				assert.True(t, errors.Is(err, calendar.ErrNotFound))
			}
		case 2:
			n := len(c.Events[day])
			if n > 0 {
				require.NoError(t, c.SetCompletion(day, rnd.Intn(n), rnd.Intn(2) == 0))
			}
		}
		assertAligned(t, c)
	}
}

// TestCollection_SetDayType тестирует тип дня
func TestCollection_SetDayType(t *testing.T) {
	c := calendar.NewCollection(march)

	require.NoError(t, c.SetDayType("2024-03-10", calendar.DaySickness))
	assert.Equal(t, calendar.DaySickness, c.DayTypeOf("2024-03-10"))

	require.NoError(t, c.SetDayType("1999-01-01", calendar.DayVacation))
	assert.Equal(t, calendar.DayVacation, c.DayTypeOf("1999-01-01"))

	assert.ErrorIs(t, c.SetDayType("2024-03-10", "truancy"), calendar.ErrInvalidInput)
	assert.ErrorIs(t, c.SetDayType("bad", calendar.DayWork), calendar.ErrInvalidInput)
	assert.Equal(t, calendar.DayWork, c.DayTypeOf("2030-01-01"))
}

// TestCollection_Categories тестирует набор категорий
func TestCollection_Categories(t *testing.T) {
	c := calendar.NewCollection(march)

	changed, err := c.AddCategory("math")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = c.AddCategory("math")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"codeforces", "math"}, c.Categories)

	_, err = c.AddCategory(" ")
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	t.Run("removal leaves task references orphaned", func(t *testing.T) {
		_, err := c.AddTask("2024-03-10", "integrals", calendar.WithCategory("math"))
		require.NoError(t, err)

		assert.True(t, c.RemoveCategory("math"))
		assert.False(t, c.RemoveCategory("math"))

		assert.Equal(t, []string{"codeforces"}, c.Categories)
		assert.True(t, c.Events["2024-03-10"][0].InCategory("math"))
		assert.Equal(t, calendar.Coverage{Left: 1}, c.Coverage(march, march, "math"))
	})
}

// TestCollection_Clone тестирует независимость копии
func TestCollection_Clone(t *testing.T) {
	c := calendar.NewCollection(march)
	_, err := c.AddTask("2024-03-10", "a", calendar.WithCategory("x"))
	require.NoError(t, err)

	clone := c.Clone()
	require.NoError(t, clone.SetCompletion("2024-03-10", 0, true))
	*clone.Events["2024-03-10"][0].Category = "y"
	clone.Categories[0] = "changed"
	clone.DayTypes["2024-03-10"] = calendar.DaySickness

	assert.Equal(t, []bool{false}, c.DoneMap["2024-03-10"])
	assert.True(t, c.Events["2024-03-10"][0].InCategory("x"))
	assert.Equal(t, "codeforces", c.Categories[0])
	assert.Equal(t, calendar.DayWork, c.DayTypes["2024-03-10"])
}

// TestCollection_NormalizeValidate тестирует проверку коллекции, пришедшей от клиента
func TestCollection_NormalizeValidate(t *testing.T) {
	math := "math"
	tests := []struct {
		name        string
		collection  calendar.Collection
		expectError bool
	}{
		{
			name: "success - consistent collection",
			collection: calendar.Collection{
				Events:     map[string][]calendar.TaskRecord{"2024-03-10": {{Text: "a"}, {Text: "b", Category: &math}}},
				DoneMap:    map[string][]bool{"2024-03-10": {true, false}},
				Categories: []string{"math", "math"},
				DayTypes:   map[string]calendar.DayType{"2024-03-10": calendar.DayVacation},
			},
		},
		{
			name: "success - empty days are dropped",
			collection: calendar.Collection{
				Events:  map[string][]calendar.TaskRecord{"2024-03-10": {}},
				DoneMap: map[string][]bool{"2024-03-10": {}, "2024-03-11": {}},
			},
		},
		{
			name: "error - length mismatch",
			collection: calendar.Collection{
				Events:  map[string][]calendar.TaskRecord{"2024-03-10": {{Text: "a"}}},
				DoneMap: map[string][]bool{"2024-03-10": {true, false}},
			},
			expectError: true,
		},
		{
			name: "error - done flags without tasks",
			collection: calendar.Collection{
				DoneMap: map[string][]bool{"2024-03-10": {true}},
			},
			expectError: true,
		},
		{
			name: "error - legacy day key",
			collection: calendar.Collection{
				Events:  map[string][]calendar.TaskRecord{"Sun Mar 10 2024": {{Text: "a"}}},
				DoneMap: map[string][]bool{"Sun Mar 10 2024": {false}},
			},
			expectError: true,
		},
		{
			name: "error - unknown day type",
			collection: calendar.Collection{
				DayTypes: map[string]calendar.DayType{"2024-03-10": "holiday"},
			},
			expectError: true,
		},
		{
			name: "error - empty text",
			collection: calendar.Collection{
				Events:  map[string][]calendar.TaskRecord{"2024-03-10": {{Text: ""}}},
				DoneMap: map[string][]bool{"2024-03-10": {false}},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.collection
			c.Normalize()
			err := c.Validate()

			if tt.expectError {
				assert.ErrorIs(t, err, calendar.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assertAligned(t, &c)
			for _, tasks := range c.Events {
				for _, task := range tasks {
					assert.NotEqual(t, uuid.Nil, task.ID)
				}
			}
			assert.NotNil(t, c.DayTypes)
		})
	}
}
