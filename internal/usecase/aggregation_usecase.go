package usecase

import (
	"sort"
	"time"

	"github.com/crime-analytics/internal/domain"
	"go.uber.org/zap"
)

// AggregationUseCase - чистые группировки над очищенными записями
type AggregationUseCase struct {
	logger *zap.Logger
}

func NewAggregationUseCase(logger *zap.Logger) *AggregationUseCase {
	return &AggregationUseCase{logger: logger}
}

// SummarizeByPrecinct - число жалоб по участку, по возрастанию номера участка
func (uc *AggregationUseCase) SummarizeByPrecinct(records []domain.Complaint) []domain.PrecinctCount {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.Precinct]++
	}

	result := make([]domain.PrecinctCount, 0, len(counts))
	for precinct, n := range counts {
		result = append(result, domain.PrecinctCount{Precinct: precinct, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Precinct < result[j].Precinct
	})

	uc.logger.Debug("Summarized by precinct", zap.Int("precincts", len(result)))
	return result
}

// SummarizeByPrecinctOffense - число жалоб по участку и правонарушению.
// Порядок детерминирован, но вызывающий код не должен на него полагаться.
func (uc *AggregationUseCase) SummarizeByPrecinctOffense(records []domain.Complaint) []domain.PrecinctOffenseCount {
	type key struct {
		precinct int
		offense  string
	}

	counts := make(map[key]int)
	for _, r := range records {
		counts[key{r.Precinct, r.Offense}]++
	}

	result := make([]domain.PrecinctOffenseCount, 0, len(counts))
	for k, n := range counts {
		result = append(result, domain.PrecinctOffenseCount{Precinct: k.precinct, Offense: k.offense, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Precinct != result[j].Precinct {
			return result[i].Precinct < result[j].Precinct
		}
		return result[i].Offense < result[j].Offense
	})

	return result
}

// TopOffenses возвращает n самых частых правонарушений. При равной частоте
// раньше идет то, что раньше встретилось во входных данных.
func (uc *AggregationUseCase) TopOffenses(records []domain.Complaint, n int) []string {
	if n <= 0 {
		return []string{}
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range records {
		if _, seen := counts[r.Offense]; !seen {
			order = append(order, r.Offense)
		}
		counts[r.Offense]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}

// MonthlyBoroughSeries - число жалоб по (месяц, округ), по месяцу и затем по имени округа
func (uc *AggregationUseCase) MonthlyBoroughSeries(records []domain.Complaint) []domain.MonthlyCount {
	type key struct {
		month   int64
		borough domain.Borough
	}

	counts := make(map[key]int)
	for _, r := range records {
		counts[key{domain.MonthStart(r.Month).Unix(), r.Borough}]++
	}

	result := make([]domain.MonthlyCount, 0, len(counts))
	for k, n := range counts {
		result = append(result, domain.MonthlyCount{
			Month:   time.Unix(k.month, 0).UTC(),
			Borough: k.borough,
			Count:   n,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Month.Equal(result[j].Month) {
			return result[i].Month.Before(result[j].Month)
		}
		return result[i].Borough < result[j].Borough
	})

	uc.logger.Debug("Built monthly borough series", zap.Int("rows", len(result)))
	return result
}
