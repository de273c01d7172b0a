package arima

import (
	"fmt"
	"math"

	goarima "github.com/sartorproj/goarima/arima"
	"github.com/sartorproj/goarima/stats"
	"github.com/sartorproj/goarima/timeseries"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
	"go.uber.org/zap"
)

type factory struct {
	logger *zap.Logger
}

// NewModelFactory создает фабрику ARIMA-моделей на базе goarima
func NewModelFactory(logger *zap.Logger) repository.ForecastModelFactory {
	return &factory{logger: logger}
}

func (f *factory) New(order domain.ARIMAOrder) repository.ForecastModel {
	return &model{
		order:  order,
		logger: f.logger,
	}
}

type model struct {
	order   domain.ARIMAOrder
	predict func(steps int) ([]float64, error)
	aic     float64
	adf     *float64
	logger  *zap.Logger
}

// Fit обучает ARIMA(p,d,q) на переданном префиксе ряда
func (m *model) Fit(train []float64) error {
	if len(train) == 0 {
		return fmt.Errorf("empty training series")
	}

	values := make([]float64, len(train))
	copy(values, train)
	series := &timeseries.Series{Values: values}

	fitted := goarima.New(m.order.P, m.order.D, m.order.Q)
	if err := fitted.Fit(series); err != nil {
		return err
	}
	m.predict = fitted.Predict
	m.aic = fitted.AIC

	if adf := stats.ADF(series, 0); adf != nil && !math.IsNaN(adf.PValue) {
		p := adf.PValue
		m.adf = &p
		m.logger.Debug("ADF stationarity test",
			zap.Float64("p_value", adf.PValue),
			zap.Bool("stationary", adf.IsStationary))
	}

	return nil
}

// Predict прогнозирует steps значений после конца обучающей выборки
func (m *model) Predict(steps int) ([]float64, error) {
	if m.predict == nil {
		return nil, fmt.Errorf("model ARIMA%s is not fitted", m.order)
	}
	forecasts, err := m.predict(steps)
	if err != nil {
		return nil, err
	}
	for i, v := range forecasts {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite forecast at step %d", i+1)
		}
	}
	return forecasts, nil
}

func (m *model) AIC() (float64, bool) {
	if m.predict == nil || math.IsNaN(m.aic) || math.IsInf(m.aic, 0) {
		return 0, false
	}
	return m.aic, true
}

func (m *model) ADFPValue() (float64, bool) {
	if m.adf == nil {
		return 0, false
	}
	return *m.adf, true
}
