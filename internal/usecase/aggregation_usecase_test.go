package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/usecase"
)

func complaint(precinct int, offense string, borough domain.Borough, month time.Time) domain.Complaint {
	return domain.Complaint{
		Precinct:     precinct,
		Offense:      offense,
		Borough:      borough,
		ReportedFrom: month.Add(36 * time.Hour),
		Month:        month,
	}
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestAggregationUseCase_SummarizeByPrecinct(t *testing.T) {
	uc := usecase.NewAggregationUseCase(zap.NewNop())
	jan := month(2024, time.January)

	records := []domain.Complaint{
		complaint(75, "ROBBERY", domain.Brooklyn, jan),
		complaint(14, "ROBBERY", domain.Manhattan, jan),
		complaint(75, "ASSAULT 3", domain.Brooklyn, jan),
		complaint(1, "THEFT", domain.Manhattan, jan),
	}

	result := uc.SummarizeByPrecinct(records)

	assert.Equal(t, []domain.PrecinctCount{
		{Precinct: 1, Count: 1},
		{Precinct: 14, Count: 1},
		{Precinct: 75, Count: 2},
	}, result)

	total := 0
	for _, row := range result {
		total += row.Count
	}
	assert.Equal(t, len(records), total)
}

func TestAggregationUseCase_SummarizeByPrecinctOffense(t *testing.T) {
	uc := usecase.NewAggregationUseCase(zap.NewNop())
	jan := month(2024, time.January)

	records := []domain.Complaint{
		complaint(75, "ROBBERY", domain.Brooklyn, jan),
		complaint(75, "ROBBERY", domain.Brooklyn, jan),
		complaint(75, "ASSAULT 3", domain.Brooklyn, jan),
		complaint(14, "ROBBERY", domain.Manhattan, jan),
	}

	result := uc.SummarizeByPrecinctOffense(records)

	assert.ElementsMatch(t, []domain.PrecinctOffenseCount{
		{Precinct: 75, Offense: "ROBBERY", Count: 2},
		{Precinct: 75, Offense: "ASSAULT 3", Count: 1},
		{Precinct: 14, Offense: "ROBBERY", Count: 1},
	}, result)
	assert.Empty(t, uc.SummarizeByPrecinctOffense(nil))
}

func TestAggregationUseCase_TopOffenses(t *testing.T) {
	uc := usecase.NewAggregationUseCase(zap.NewNop())
	jan := month(2025, time.January)

	repeat := func(offense string, n int) []domain.Complaint {
		out := make([]domain.Complaint, n)
		for i := range out {
			out[i] = complaint(14, offense, domain.Manhattan, jan)
		}
		return out
	}

	t.Run("most frequent first", func(t *testing.T) {
		records := append(repeat("ASSAULT", 50), repeat("THEFT", 100)...)
		assert.Equal(t, []string{"THEFT"}, uc.TopOffenses(records, 1))
		assert.Equal(t, []string{"THEFT", "ASSAULT"}, uc.TopOffenses(records, 6))
	})

	t.Run("ties keep first appearance order", func(t *testing.T) {
		records := append(append(repeat("HARRASSMENT 2", 3), repeat("BURGLARY", 3)...), repeat("ROBBERY", 3)...)
		assert.Equal(t, []string{"HARRASSMENT 2", "BURGLARY"}, uc.TopOffenses(records, 2))
	})

	t.Run("non-positive n", func(t *testing.T) {
		records := repeat("THEFT", 2)
		assert.Empty(t, uc.TopOffenses(records, 0))
		assert.Empty(t, uc.TopOffenses(records, -1))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, uc.TopOffenses(nil, 6))
	})
}

func TestAggregationUseCase_MonthlyBoroughSeries(t *testing.T) {
	uc := usecase.NewAggregationUseCase(zap.NewNop())
	jan, feb := month(2024, time.January), month(2024, time.February)

	records := []domain.Complaint{
		complaint(14, "THEFT", domain.Manhattan, feb),
		complaint(75, "THEFT", domain.Brooklyn, jan),
		complaint(14, "THEFT", domain.Manhattan, jan),
		complaint(14, "THEFT", domain.Manhattan, jan),
		complaint(40, "THEFT", domain.Bronx, feb),
	}

	result := uc.MonthlyBoroughSeries(records)

	require.Equal(t, []domain.MonthlyCount{
		{Month: jan, Borough: domain.Brooklyn, Count: 1},
		{Month: jan, Borough: domain.Manhattan, Count: 2},
		{Month: feb, Borough: domain.Bronx, Count: 1},
		{Month: feb, Borough: domain.Manhattan, Count: 1},
	}, result)

	t.Run("one row per month and borough", func(t *testing.T) {
		type key struct {
			month   int64
			borough domain.Borough
		}
		seen := make(map[key]bool)
		total := 0
		for _, row := range result {
			k := key{row.Month.Unix(), row.Borough}
			assert.False(t, seen[k], "duplicate %v", k)
			seen[k] = true
			total += row.Count
		}
		assert.Equal(t, len(records), total)
	})

	t.Run("re-aggregation is idempotent", func(t *testing.T) {
		expanded := make([]domain.Complaint, 0)
		for _, row := range result {
			for i := 0; i < row.Count; i++ {
				expanded = append(expanded, complaint(0, "X", row.Borough, row.Month))
			}
		}
		assert.Equal(t, result, uc.MonthlyBoroughSeries(expanded))
	})
}
