package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
	"github.com/crime-analytics/internal/pkg/errors"
	"github.com/crime-analytics/internal/pkg/utils"
	"go.uber.org/zap"
)

// minTrainingSlack - сколько точек сверх holdout нужно, чтобы обучение имело смысл
const minTrainingSlack = 5

type ForecastUseCase struct {
	models repository.ForecastModelFactory
	logger *zap.Logger
	now    func() time.Time
}

func NewForecastUseCase(models repository.ForecastModelFactory, logger *zap.Logger) *ForecastUseCase {
	return &ForecastUseCase{
		models: models,
		logger: logger,
		now:    time.Now,
	}
}

// MakeBoroughSeries строит месячный ряд одного округа: сортирует по месяцу
// и заполняет пропущенные месяцы нулями. Для неизвестного округа ряд пустой.
func (uc *ForecastUseCase) MakeBoroughSeries(monthly []domain.MonthlyCount, borough domain.Borough) domain.MonthlySeries {
	series := domain.MonthlySeries{Borough: borough}

	byMonth := make(map[int64]float64)
	months := make([]time.Time, 0)
	for _, row := range monthly {
		if row.Borough != borough {
			continue
		}
		month := domain.MonthStart(row.Month)
		if _, seen := byMonth[month.Unix()]; !seen {
			months = append(months, month)
		}
		byMonth[month.Unix()] += float64(row.Count)
	}
	if len(months) == 0 {
		return series
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	first, last := months[0], months[len(months)-1]
	for m := first; !m.After(last); m = domain.AddMonths(m, 1) {
		series.Months = append(series.Months, m)
		series.Counts = append(series.Counts, byMonth[m.Unix()])
	}

	return series
}

// FitARIMAForecast обучает модель на ряде без последних Holdout точек,
// прогнозирует Holdout шагов для бэктеста и Holdout+Horizon шагов для будущего,
// оставляя из второго прогноза последние Horizon значений.
func (uc *ForecastUseCase) FitARIMAForecast(series domain.MonthlySeries, opts domain.ForecastOptions) (*domain.ForecastResult, error) {
	if opts.Holdout < 1 || opts.Horizon < 0 {
		return nil, errors.ErrInvalidForecastOptions.WithDetails(map[string]interface{}{
			"holdout": opts.Holdout,
			"horizon": opts.Horizon,
		})
	}

	n := series.Len()
	if n <= opts.Holdout+minTrainingSlack {
		return nil, errors.ErrSeriesTooShort.WithDetails(map[string]interface{}{
			"borough": series.Borough.String(),
			"length":  n,
			"holdout": opts.Holdout,
		})
	}

	train := series.Counts[:n-opts.Holdout]
	test := series.Counts[n-opts.Holdout:]

	model := uc.models.New(opts.Order)
	if err := model.Fit(train); err != nil {
		return nil, fmt.Errorf("%w: fit ARIMA%s for %s: %w", errors.ErrModelFit, opts.Order, series.Borough, err)
	}

	backtest, err := predictExactly(model, opts.Holdout)
	if err != nil {
		return nil, fmt.Errorf("%w: backtest forecast for %s: %w", errors.ErrModelFit, series.Borough, err)
	}

	extended, err := predictExactly(model, opts.Holdout+opts.Horizon)
	if err != nil {
		return nil, fmt.Errorf("%w: future forecast for %s: %w", errors.ErrModelFit, series.Borough, err)
	}
	future := extended[opts.Holdout:]

	rmse, mae, mape := utils.ErrorMetrics(test, backtest)
	result := &domain.ForecastResult{
		Borough:    series.Borough,
		Order:      opts.Order,
		Points:     n,
		Table:      assembleTable(series, opts.Holdout, backtest, future),
		Metrics:    domain.BacktestMetrics{RMSE: rmse, MAE: mae, MAPE: mape},
		ForecastAt: uc.now().UTC(),
	}

	if diag, ok := model.(repository.ModelDiagnostics); ok {
		if aic, ok := diag.AIC(); ok {
			result.AIC = &aic
		}
		if p, ok := diag.ADFPValue(); ok {
			result.ADFPValue = &p
		}
	}

	uc.logger.Info("Forecast fitted",
		zap.String("borough", series.Borough.String()),
		zap.String("order", opts.Order.String()),
		zap.Int("points", n),
		zap.Int("train", len(train)),
		zap.Float64("rmse", rmse),
		zap.Float64("mae", mae),
		zap.Float64("mape", mape))

	return result, nil
}

func predictExactly(model repository.ForecastModel, steps int) ([]float64, error) {
	if steps == 0 {
		return []float64{}, nil
	}
	values, err := model.Predict(steps)
	if err != nil {
		return nil, err
	}
	if len(values) != steps {
		return nil, fmt.Errorf("model returned %d values, want %d", len(values), steps)
	}
	return values, nil
}

// assembleTable склеивает историю и горизонт: actual для всей истории,
// forecast для отложенного окна и будущих месяцев
func assembleTable(series domain.MonthlySeries, holdout int, backtest, future []float64) domain.ForecastTable {
	n := series.Len()
	rows := make([]domain.ForecastRow, 0, n+len(future))

	for i, month := range series.Months {
		actual := series.Counts[i]
		row := domain.ForecastRow{Month: month, Actual: &actual}
		if i >= n-holdout {
			f := backtest[i-(n-holdout)]
			row.Forecast = &f
		}
		rows = append(rows, row)
	}

	last, _ := series.Last()
	for i, v := range future {
		f := v
		rows = append(rows, domain.ForecastRow{
			Month:    domain.AddMonths(last, i+1),
			Forecast: &f,
		})
	}

	return domain.ForecastTable{Rows: rows}
}
