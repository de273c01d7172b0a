package utils

import (
	"math"
	"sort"
)

// Quantile считает квантиль q с линейной интерполяцией между соседними
// порядковыми статистиками. Для пустого набора возвращает NaN.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// RMSE, MAE и MAPE по парам actual/predicted; MAPE пропускает нулевые actual
func ErrorMetrics(actual, predicted []float64) (rmse, mae, mape float64) {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	if n == 0 {
		return 0, 0, 0
	}

	nonZero := 0
	for i := 0; i < n; i++ {
		d := actual[i] - predicted[i]
		rmse += d * d
		mae += math.Abs(d)
		if actual[i] != 0 {
			mape += math.Abs(d) / math.Abs(actual[i]) * 100
			nonZero++
		}
	}

	rmse = math.Sqrt(rmse / float64(n))
	mae /= float64(n)
	if nonZero > 0 {
		mape /= float64(nonZero)
	}
	return rmse, mae, mape
}
