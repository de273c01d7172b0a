package postgres_test

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
	"github.com/crime-analytics/internal/pkg/errors"
	"github.com/crime-analytics/internal/repository/postgres"
)

// WarehouseRepositoryTestSuite проверяет SQL, который репозиторий отправляет в базу
type WarehouseRepositoryTestSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	repo  repository.WarehouseRepository
	ctx   context.Context
	runID uuid.UUID
}

func (s *WarehouseRepositoryTestSuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	s.Require().NoError(err)

	s.mock = mock
	s.ctx = context.Background()
	s.runID = uuid.New()
	db := postgres.NewDBForTest(sqlx.NewDb(mockDB, "pgx"), zap.NewNop())
	s.repo = postgres.NewWarehouseRepository(db, zap.NewNop())
}

func (s *WarehouseRepositoryTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func ptr(v float64) *float64 { return &v }

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func (s *WarehouseRepositoryTestSuite) TestEnsureSchema() {
	for _, table := range []string{"crime_monthly_counts", "crime_forecast_runs", "crime_forecasts", "crime_map_runs"} {
		s.mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + table)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	s.NoError(s.repo.EnsureSchema(s.ctx))
}

func (s *WarehouseRepositoryTestSuite) TestEnsureSchema_Error() {
	s.mock.ExpectExec("CREATE TABLE").WillReturnError(stderrors.New("permission denied"))

	err := s.repo.EnsureSchema(s.ctx)
	s.True(stderrors.Is(err, errors.ErrDatabaseError))
}

func (s *WarehouseRepositoryTestSuite) TestSaveMonthlyCounts() {
	rows := []domain.MonthlyCount{
		{Month: month(2024, time.January), Borough: domain.Bronx, Count: 4100},
		{Month: month(2024, time.January), Borough: domain.Queens, Count: 5200},
	}

	s.mock.ExpectBegin()
	for _, row := range rows {
		s.mock.ExpectExec("INSERT INTO crime_monthly_counts").
			WithArgs(s.runID, row.Month, string(row.Borough), row.Count).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	s.mock.ExpectCommit()

	s.NoError(s.repo.SaveMonthlyCounts(s.ctx, s.runID, rows))
}

func (s *WarehouseRepositoryTestSuite) TestSaveMonthlyCounts_RollbackOnError() {
	rows := []domain.MonthlyCount{
		{Month: month(2024, time.January), Borough: domain.Bronx, Count: 4100},
		{Month: month(2024, time.February), Borough: domain.Bronx, Count: 3900},
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO crime_monthly_counts").WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec("INSERT INTO crime_monthly_counts").WillReturnError(stderrors.New("duplicate key"))
	s.mock.ExpectRollback()

	err := s.repo.SaveMonthlyCounts(s.ctx, s.runID, rows)
	s.True(stderrors.Is(err, errors.ErrDatabaseError))
}

func (s *WarehouseRepositoryTestSuite) TestSaveForecast() {
	aic := 640.2
	result := &domain.ForecastResult{
		Borough: domain.StatenIsland,
		Order:   domain.ARIMAOrder{P: 1, D: 1, Q: 1},
		Points:  46,
		Metrics: domain.BacktestMetrics{RMSE: 41, MAE: 30, MAPE: 4.5},
		AIC:     &aic,
		Table: domain.ForecastTable{Rows: []domain.ForecastRow{
			{Month: month(2025, time.September), Actual: ptr(700), Forecast: ptr(690)},
			{Month: month(2025, time.October), Forecast: ptr(688)},
		}},
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO crime_forecast_runs").
		WithArgs(s.runID, "STATEN ISLAND", 1, 1, 1, 46, 41.0, 30.0, 4.5, aic, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec("INSERT INTO crime_forecasts").
		WithArgs(s.runID, "STATEN ISLAND", month(2025, time.September), 700.0, 690.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec("INSERT INTO crime_forecasts").
		WithArgs(s.runID, "STATEN ISLAND", month(2025, time.October), nil, 688.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.repo.SaveForecast(s.ctx, s.runID, result))
}

func (s *WarehouseRepositoryTestSuite) TestSaveMapRun() {
	run := &domain.MapRun{
		Offenses: []string{"PETIT LARCENY", "HARRASSMENT 2"},
		Legend:   domain.LegendBands{LowMax: 2, MedMax: 5, HighMax: 14},
		Points:   120000,
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("INSERT INTO crime_map_runs").
		WithArgs(s.runID, pq.Array(run.Offenses), 2, 5, 14, 120000, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.repo.SaveMapRun(s.ctx, s.runID, run))
}

func (s *WarehouseRepositoryTestSuite) TestSaveMapRun_BeginError() {
	s.mock.ExpectBegin().WillReturnError(stderrors.New("connection refused"))

	err := s.repo.SaveMapRun(s.ctx, s.runID, &domain.MapRun{})
	s.True(stderrors.Is(err, errors.ErrDatabaseError))
}

func TestWarehouseRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(WarehouseRepositoryTestSuite))
}
