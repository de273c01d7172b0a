package domain

import "time"

// MinSeriesLength - ряды короче этого порога не прогнозируются
const MinSeriesLength = 36

// MonthlySeries - месячный ряд одного округа без пропусков
type MonthlySeries struct {
	Borough Borough
	Months  []time.Time
	Counts  []float64
}

func (s MonthlySeries) Len() int {
	return len(s.Counts)
}

// Last возвращает последний месяц ряда; ok=false для пустого ряда
func (s MonthlySeries) Last() (time.Time, bool) {
	if len(s.Months) == 0 {
		return time.Time{}, false
	}
	return s.Months[len(s.Months)-1], true
}

// AddMonths сдвигает начало месяца на n календарных месяцев
func AddMonths(month time.Time, n int) time.Time {
	return time.Date(month.Year(), month.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}
