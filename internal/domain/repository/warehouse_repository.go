package repository

import (
	"context"

	"github.com/crime-analytics/internal/domain"
	"github.com/google/uuid"
)

// WarehouseRepository публикует производные таблицы запуска во внешнее хранилище
type WarehouseRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveMonthlyCounts(ctx context.Context, runID uuid.UUID, rows []domain.MonthlyCount) error
	SaveForecast(ctx context.Context, runID uuid.UUID, result *domain.ForecastResult) error
	SaveMapRun(ctx context.Context, runID uuid.UUID, run *domain.MapRun) error
}
