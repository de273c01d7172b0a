package repository

import "github.com/crime-analytics/internal/domain"

// ForecastModel - модель временного ряда, обучаемая один раз на префиксе ряда
type ForecastModel interface {
	Fit(train []float64) error
	// Predict возвращает steps значений сразу после конца обучающей выборки
	Predict(steps int) ([]float64, error)
}

// ModelDiagnostics - необязательные диагностики, которые может отдавать модель
type ModelDiagnostics interface {
	AIC() (float64, bool)
	ADFPValue() (float64, bool)
}

// ForecastModelFactory создает новую модель заданного порядка
type ForecastModelFactory interface {
	New(order domain.ARIMAOrder) ForecastModel
}
