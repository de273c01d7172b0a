package arima

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
)

// seasonalCounts - 48 месяцев с трендом, сезонностью и детерминированным шумом
func seasonalCounts(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		trend := 4000 + 6*float64(i)
		season := 350 * math.Sin(2*math.Pi*float64(i)/12)
		noise := 40 * math.Sin(float64(i)*1.7)
		values[i] = math.Round(trend + season + noise)
	}
	return values
}

func TestModel_PredictBeforeFit(t *testing.T) {
	m := NewModelFactory(zap.NewNop()).New(domain.ARIMAOrder{P: 1, D: 1, Q: 1})

	_, err := m.Predict(3)
	assert.Error(t, err)

	diag, ok := m.(repository.ModelDiagnostics)
	require.True(t, ok)
	_, ok = diag.AIC()
	assert.False(t, ok)
}

func TestModel_FitEmpty(t *testing.T) {
	m := NewModelFactory(zap.NewNop()).New(domain.ARIMAOrder{P: 1, D: 1, Q: 1})
	assert.Error(t, m.Fit(nil))
}

func TestModel_FitPredict(t *testing.T) {
	m := NewModelFactory(zap.NewNop()).New(domain.ARIMAOrder{P: 1, D: 1, Q: 1})

	if err := m.Fit(seasonalCounts(36)); err != nil {
		t.Skipf("goarima could not fit the synthetic series: %v", err)
	}

	short, err := m.Predict(12)
	require.NoError(t, err)
	require.Len(t, short, 12)

	long, err := m.Predict(24)
	require.NoError(t, err)
	require.Len(t, long, 24)

	for i := range short {
		assert.InDelta(t, short[i], long[i], 1e-6, "forecasts from one fit must be continuous")
	}
}
