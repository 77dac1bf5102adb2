package calendar

import "errors"

// ошибки агрегатора, остальные слои проверяют их через errors.Is
var (
	ErrInvalidInput = errors.New("некорректные входные данные")
	ErrNotFound     = errors.New("не найдено")
)
