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
	"github.com/crime-analytics/internal/pipeline"
	"github.com/crime-analytics/internal/pkg/logger"
	"github.com/crime-analytics/internal/repository/csvfile"
	"github.com/crime-analytics/internal/repository/geojsonfile"
	"github.com/crime-analytics/internal/repository/postgres"
	"github.com/crime-analytics/internal/usecase"
)

// previewRows - сколько участков показать в сводке
const previewRows = 5

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
	log.Info("Starting crime maps",
		zap.String("run_id", runID.String()),
		zap.String("input", cfg.Input.CurrentCSV),
		zap.String("output_dir", cfg.Output.Dir),
		zap.Bool("choropleth", cfg.Maps.ChoroplethEnabled))

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

	// 4. Initialize repositories, use cases and renderers
	cleaningUC := usecase.NewCleaningUseCase(csvfile.NewComplaintReader(log), log)
	aggregationUC := usecase.NewAggregationUseCase(log)
	heatmap := render.NewHeatmapRenderer(cfg.Maps.PeriodLabel, cfg.Maps.TopOffenses, log)

	// 5. Build pipeline
	var (
		records  []domain.Complaint
		offenses []string
	)

	runner := pipeline.NewRunner("heatmap", log)

	runner.Register(pipeline.NewStep("clean", func(ctx context.Context) error {
		var err error
		records, _, err = cleaningUC.LoadAndClean(ctx, cfg.Input.CurrentCSV)
		return err
	}))

	runner.Register(pipeline.NewStep("summarize", func(ctx context.Context) error {
		byPrecinct := aggregationUC.SummarizeByPrecinct(records)
		preview := byPrecinct
		if len(preview) > previewRows {
			preview = preview[:previewRows]
		}
		log.Info("Complaints by precinct",
			zap.Int("precincts", len(byPrecinct)),
			zap.Any("head", preview))

		offenses = aggregationUC.TopOffenses(records, cfg.Maps.TopOffenses)
		log.Info("Top offenses", zap.Strings("offenses", offenses))
		return nil
	}))

	runner.Register(pipeline.NewStep("heatmap", func(ctx context.Context) error {
		run, err := heatmap.Render(records, offenses, cfg.OutputPath(cfg.Maps.HeatmapFile))
		if err != nil {
			return err
		}
		if warehouse != nil {
			return warehouse.SaveMapRun(ctx, runID, run)
		}
		return nil
	}))

	if cfg.Maps.ChoroplethEnabled {
		boundaries := geojsonfile.NewPrecinctRepository(log)
		choropleth := render.NewChoroplethRenderer(cfg.Maps.PrecinctProperty, log)

		runner.Register(pipeline.NewStep("choropleth", func(ctx context.Context) error {
			precincts, err := boundaries.LoadPrecincts(ctx, cfg.Input.PrecinctGeoJSON)
			if err != nil {
				return err
			}

			all := render.ChoroplethLayer{Name: render.AllCrimesLayer, Counts: make(map[int]int)}
			for _, row := range aggregationUC.SummarizeByPrecinct(records) {
				all.Counts[row.Precinct] = row.Count
			}
			if err := choropleth.Render(precincts, []render.ChoroplethLayer{all}, cfg.OutputPath(cfg.Maps.ChoroplethFile)); err != nil {
				return err
			}

			layers := []render.ChoroplethLayer{all}
			byOffense := make(map[string]map[int]int, len(offenses))
			for _, offense := range offenses {
				byOffense[offense] = make(map[int]int)
			}
			for _, row := range aggregationUC.SummarizeByPrecinctOffense(records) {
				if counts, ok := byOffense[row.Offense]; ok {
					counts[row.Precinct] = row.Count
				}
			}
			for _, offense := range offenses {
				layers = append(layers, render.ChoroplethLayer{Name: offense, Counts: byOffense[offense]})
			}
			return choropleth.Render(precincts, layers, cfg.OutputPath(cfg.Maps.ChoroplethByOffense))
		}))
	}

	// 6. Run
	if err := runner.Run(ctx); err != nil {
		log.Fatal("Map pipeline failed", zap.String("run_id", runID.String()), zap.Error(err))
	}

	log.Info("Maps complete", zap.String("run_id", runID.String()))
}
