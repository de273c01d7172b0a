package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
	"github.com/crime-analytics/internal/pkg/errors"
)

const (
	insertMonthlyCount = `INSERT INTO crime_monthly_counts (run_id, month, borough, crime_count)
		VALUES ($1, $2, $3, $4)`

	insertForecastRun = `INSERT INTO crime_forecast_runs
		(run_id, borough, p, d, q, points, rmse, mae, mape, aic, adf_p_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	insertForecastRow = `INSERT INTO crime_forecasts (run_id, borough, month, actual, forecast)
		VALUES ($1, $2, $3, $4, $5)`

	insertMapRun = `INSERT INTO crime_map_runs
		(run_id, offenses, low_max, med_max, high_max, points, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
)

type warehouseRepository struct {
	db     *DB
	logger *zap.Logger
	now    func() time.Time
}

// NewWarehouseRepository создает хранилище производных таблиц запуска
func NewWarehouseRepository(db *DB, logger *zap.Logger) repository.WarehouseRepository {
	return &warehouseRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *warehouseRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			r.logger.Error("failed to ensure schema", zap.Error(err))
			return fmt.Errorf("%w: ensure schema: %w", errors.ErrDatabaseError, err)
		}
	}
	return nil
}

func (r *warehouseRepository) SaveMonthlyCounts(ctx context.Context, runID uuid.UUID, rows []domain.MonthlyCount) error {
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, row := range rows {
			if _, err := tx.ExecContext(ctx, insertMonthlyCount,
				runID, row.Month, row.Borough.String(), row.Count); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to save monthly counts", zap.String("run_id", runID.String()), zap.Error(err))
		return fmt.Errorf("%w: save monthly counts: %w", errors.ErrDatabaseError, err)
	}

	r.logger.Info("Monthly counts published", zap.String("run_id", runID.String()), zap.Int("rows", len(rows)))
	return nil
}

func (r *warehouseRepository) SaveForecast(ctx context.Context, runID uuid.UUID, result *domain.ForecastResult) error {
	borough := result.Borough.String()

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, insertForecastRun,
			runID, borough,
			result.Order.P, result.Order.D, result.Order.Q,
			result.Points,
			result.Metrics.RMSE, result.Metrics.MAE, result.Metrics.MAPE,
			result.AIC, result.ADFPValue,
			r.now().UTC(),
		); err != nil {
			return err
		}

		for _, row := range result.Table.Rows {
			if _, err := tx.ExecContext(ctx, insertForecastRow,
				runID, borough, row.Month, row.Actual, row.Forecast); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to save forecast",
			zap.String("run_id", runID.String()),
			zap.String("borough", borough),
			zap.Error(err))
		return fmt.Errorf("%w: save forecast for %s: %w", errors.ErrDatabaseError, borough, err)
	}

	r.logger.Info("Forecast published",
		zap.String("run_id", runID.String()),
		zap.String("borough", borough),
		zap.Int("rows", result.Table.Len()))
	return nil
}

func (r *warehouseRepository) SaveMapRun(ctx context.Context, runID uuid.UUID, run *domain.MapRun) error {
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, insertMapRun,
			runID, pq.Array(run.Offenses),
			run.Legend.LowMax, run.Legend.MedMax, run.Legend.HighMax,
			run.Points, r.now().UTC())
		return err
	})
	if err != nil {
		r.logger.Error("failed to save map run", zap.String("run_id", runID.String()), zap.Error(err))
		return fmt.Errorf("%w: save map run: %w", errors.ErrDatabaseError, err)
	}
	return nil
}

// inTx выполняет fn в транзакции и откатывает ее при ошибке
func (r *warehouseRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
