package calendar

import "time"

type TaskOption func(*TaskRecord)

func WithCategory(category string) TaskOption {
	return func(task *TaskRecord) {
		task.Category = &category
	}
}

func WithCreatedAt(createdAt time.Time) TaskOption {
	if createdAt.IsZero() {
		return nil
	}
	return func(task *TaskRecord) {
		task.CreatedAt = createdAt
	}
}
