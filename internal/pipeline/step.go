package pipeline

import "context"

// Step - один шаг пакетного запуска
type Step interface {
	// Name возвращает имя шага для логов и ошибок
	Name() string

	// Run выполняет шаг
	Run(ctx context.Context) error
}

type funcStep struct {
	name string
	fn   func(ctx context.Context) error
}

// NewStep оборачивает функцию в Step
func NewStep(name string, fn func(ctx context.Context) error) Step {
	return &funcStep{name: name, fn: fn}
}

func (s *funcStep) Name() string {
	return s.name
}

func (s *funcStep) Run(ctx context.Context) error {
	return s.fn(ctx)
}
