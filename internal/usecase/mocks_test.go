package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
)

// MockComplaintSource mocks repository.ComplaintSource
type MockComplaintSource struct {
	mock.Mock
}

func (m *MockComplaintSource) Read(ctx context.Context, path string) ([]domain.RawComplaint, int, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RawComplaint), args.Int(1), args.Error(2)
}

// MockForecastModel mocks repository.ForecastModel
type MockForecastModel struct {
	mock.Mock
}

func (m *MockForecastModel) Fit(train []float64) error {
	args := m.Called(train)
	return args.Error(0)
}

func (m *MockForecastModel) Predict(steps int) ([]float64, error) {
	args := m.Called(steps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// MockForecastModelFactory mocks repository.ForecastModelFactory
type MockForecastModelFactory struct {
	mock.Mock
}

func (m *MockForecastModelFactory) New(order domain.ARIMAOrder) repository.ForecastModel {
	args := m.Called(order)
	return args.Get(0).(repository.ForecastModel)
}

// diagnosticModel - модель с диагностикой для проверки AIC/ADF
type diagnosticModel struct {
	MockForecastModel
	aic float64
	adf float64
}

func (m *diagnosticModel) AIC() (float64, bool)       { return m.aic, true }
func (m *diagnosticModel) ADFPValue() (float64, bool) { return m.adf, true }
