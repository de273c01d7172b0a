package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Runner выполняет зарегистрированные шаги строго по очереди
type Runner struct {
	name   string
	steps  []Step
	logger *zap.Logger
}

// NewRunner создает новый Runner
func NewRunner(name string, logger *zap.Logger) *Runner {
	return &Runner{
		name:   name,
		steps:  make([]Step, 0),
		logger: logger,
	}
}

// Register добавляет шаг в конец очереди
func (r *Runner) Register(s Step) {
	r.steps = append(r.steps, s)
	r.logger.Debug("Step registered", zap.String("pipeline", r.name), zap.String("step", s.Name()))
}

// Steps возвращает имена шагов в порядке выполнения
func (r *Runner) Steps() []string {
	names := make([]string, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.Name()
	}
	return names
}

// Run выполняет шаги по порядку. Первая ошибка прерывает запуск.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.steps) == 0 {
		return fmt.Errorf("no steps registered")
	}

	started := time.Now()
	r.logger.Info("Starting pipeline", zap.String("pipeline", r.name), zap.Int("steps", len(r.steps)))

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline %s cancelled before step %s: %w", r.name, step.Name(), err)
		}

		stepStarted := time.Now()
		r.logger.Info("Starting step", zap.String("step", step.Name()))

		if err := step.Run(ctx); err != nil {
			r.logger.Error("Step failed",
				zap.String("step", step.Name()),
				zap.Duration("elapsed", time.Since(stepStarted)),
				zap.Error(err))
			return fmt.Errorf("step %s: %w", step.Name(), err)
		}

		r.logger.Info("Step finished",
			zap.String("step", step.Name()),
			zap.Duration("elapsed", time.Since(stepStarted)))
	}

	r.logger.Info("Pipeline finished",
		zap.String("pipeline", r.name),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}
