package domain

import (
	"fmt"
	"time"
)

// ARIMAOrder - порядок модели (p, d, q)
type ARIMAOrder struct {
	P int `json:"p" db:"p"`
	D int `json:"d" db:"d"`
	Q int `json:"q" db:"q"`
}

func (o ARIMAOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// ForecastOptions - параметры прогноза
type ForecastOptions struct {
	Order   ARIMAOrder
	Horizon int
	Holdout int
}

// DefaultForecastOptions - ARIMA(1,1,1), 12 месяцев теста и 12 месяцев прогноза
func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{
		Order:   ARIMAOrder{P: 1, D: 1, Q: 1},
		Horizon: 12,
		Holdout: 12,
	}
}

// ForecastRow - строка таблицы прогноза; nil означает отсутствие значения
type ForecastRow struct {
	Month    time.Time `json:"month" db:"month"`
	Actual   *float64  `json:"actual" db:"actual"`
	Forecast *float64  `json:"forecast" db:"forecast"`
}

// ForecastTable - история плюс горизонт, помесячно и строго по возрастанию
type ForecastTable struct {
	Rows []ForecastRow `json:"rows"`
}

func (t ForecastTable) Len() int {
	return len(t.Rows)
}

// BacktestMetrics - ошибки прогноза на отложенном окне
type BacktestMetrics struct {
	RMSE float64 `json:"rmse" db:"rmse"`
	MAE  float64 `json:"mae" db:"mae"`
	MAPE float64 `json:"mape" db:"mape"`
}

// ForecastResult - результат прогноза по одному округу
type ForecastResult struct {
	Borough    Borough         `json:"borough"`
	Order      ARIMAOrder      `json:"order"`
	Points     int             `json:"points"`
	Table      ForecastTable   `json:"table"`
	Metrics    BacktestMetrics `json:"metrics"`
	AIC        *float64        `json:"aic,omitempty"`
	ADFPValue  *float64        `json:"adf_p_value,omitempty"`
	ForecastAt time.Time       `json:"forecast_at"`
}
