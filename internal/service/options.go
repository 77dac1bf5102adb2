package service

import "time"

type Option func(*CalendarService)

// WithClock задаёт источник текущего времени для типов дней по умолчанию
func WithClock(clock func() time.Time) Option {
	if clock == nil {
		return nil
	}
	return func(s *CalendarService) {
		s.clock = clock
	}
}

type AuthOption func(*AuthService)

func WithAuthClock(clock func() time.Time) AuthOption {
	if clock == nil {
		return nil
	}
	return func(s *AuthService) {
		s.clock = clock
	}
}

// WithBcryptCost меняет стоимость хеширования, в тестах удобно bcrypt.MinCost
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		s.cost = cost
	}
}
