package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/config"
	"github.com/crime-analytics/internal/delivery/render"
	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
	"github.com/crime-analytics/internal/infrastructure/arima"
	"github.com/crime-analytics/internal/pipeline"
	"github.com/crime-analytics/internal/pkg/logger"
	"github.com/crime-analytics/internal/repository/csvfile"
	"github.com/crime-analytics/internal/repository/export"
	"github.com/crime-analytics/internal/repository/postgres"
	"github.com/crime-analytics/internal/usecase"
)

const (
	monthlyCountsFile   = "monthly_borough_counts_historic.csv"
	forecastSummaryFile = "forecast_summary.xlsx"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	runID := uuid.New()
	log.Info("Starting borough forecast",
		zap.String("run_id", runID.String()),
		zap.String("input", cfg.Input.HistoricCSV),
		zap.String("output_dir", cfg.Output.Dir),
		zap.Strings("boroughs", cfg.Forecast.Boroughs))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		log.Fatal("Failed to create output dir", zap.Error(err))
	}

	// 3. Connect to PostgreSQL (optional)
	var warehouse repository.WarehouseRepository
	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		warehouse = postgres.NewWarehouseRepository(db, log)
		if err := warehouse.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to prepare warehouse schema", zap.Error(err))
		}
	}

	// 4. Initialize repositories and use cases
	complaintSource := csvfile.NewComplaintReader(log)
	cleaningUC := usecase.NewCleaningUseCase(complaintSource, log)
	aggregationUC := usecase.NewAggregationUseCase(log)
	forecastUC := usecase.NewForecastUseCase(arima.NewModelFactory(log), log)

	exporter := export.NewExporter(log)
	charts := render.NewChartRenderer(log)

	opts := domain.ForecastOptions{
		Order:   domain.ARIMAOrder{P: cfg.Forecast.P, D: cfg.Forecast.D, Q: cfg.Forecast.Q},
		Horizon: cfg.Forecast.Horizon,
		Holdout: cfg.Forecast.Holdout,
	}

	// 5. Build pipeline
	var (
		records []domain.Complaint
		monthly []domain.MonthlyCount
		results []*domain.ForecastResult
	)

	runner := pipeline.NewRunner("forecast", log)

	runner.Register(pipeline.NewStep("clean", func(ctx context.Context) error {
		var err error
		records, _, err = cleaningUC.LoadAndClean(ctx, cfg.Input.HistoricCSV)
		return err
	}))

	runner.Register(pipeline.NewStep("aggregate", func(ctx context.Context) error {
		monthly = aggregationUC.MonthlyBoroughSeries(records)
		if err := exporter.WriteMonthlyCounts(cfg.OutputPath(monthlyCountsFile), monthly); err != nil {
			return err
		}
		if warehouse != nil {
			return warehouse.SaveMonthlyCounts(ctx, runID, monthly)
		}
		return nil
	}))

	runner.Register(pipeline.NewStep("forecast", func(ctx context.Context) error {
		for _, name := range cfg.Forecast.Boroughs {
			if err := ctx.Err(); err != nil {
				return err
			}

			borough, ok := domain.ParseBorough(name)
			if !ok {
				log.Warn("Skipping unknown borough", zap.String("borough", name))
				continue
			}

			series := forecastUC.MakeBoroughSeries(monthly, borough)
			if series.Len() < cfg.Forecast.MinMonths {
				log.Warn("Skipping borough: series too short",
					zap.String("borough", borough.String()),
					zap.Int("months", series.Len()),
					zap.Int("min_months", cfg.Forecast.MinMonths))
				continue
			}

			result, err := forecastUC.FitARIMAForecast(series, opts)
			if err != nil {
				return err
			}

			base := "forecast_" + borough.Slug()
			if err := exporter.WriteForecastTable(cfg.OutputPath(base+".csv"), result.Table); err != nil {
				return err
			}
			if err := charts.RenderForecast(result.Table, borough, cfg.OutputPath(base+".png")); err != nil {
				return err
			}
			if warehouse != nil {
				if err := warehouse.SaveForecast(ctx, runID, result); err != nil {
					return err
				}
			}

			results = append(results, result)
		}
		return nil
	}))

	if cfg.Forecast.WorkbookEnabled {
		runner.Register(pipeline.NewStep("workbook", func(ctx context.Context) error {
			if len(results) == 0 {
				log.Warn("No forecasts produced, workbook skipped")
				return nil
			}
			return exporter.WriteForecastWorkbook(cfg.OutputPath(forecastSummaryFile), results)
		}))
	}

	// 6. Run
	if err := runner.Run(ctx); err != nil {
		log.Fatal("Forecast pipeline failed", zap.String("run_id", runID.String()), zap.Error(err))
	}

	log.Info("Forecast complete",
		zap.String("run_id", runID.String()),
		zap.Int("boroughs", len(results)))
}
