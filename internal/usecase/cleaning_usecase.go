package usecase

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/domain/repository"
	"github.com/crime-analytics/internal/pkg/utils"
	"go.uber.org/zap"
)

var dateLayouts = []string{
	"01/02/2006",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 03:04:05 PM",
}

// Даты вне этого диапазона считаются битыми (как NaT при coerce)
const (
	minReportYear = 1677
	maxReportYear = 2262
)

type CleaningUseCase struct {
	source repository.ComplaintSource
	logger *zap.Logger
}

func NewCleaningUseCase(source repository.ComplaintSource, logger *zap.Logger) *CleaningUseCase {
	return &CleaningUseCase{
		source: source,
		logger: logger,
	}
}

// LoadAndClean читает CSV и возвращает очищенные записи вместе со сводкой
func (uc *CleaningUseCase) LoadAndClean(ctx context.Context, path string) ([]domain.Complaint, domain.CleanSummary, error) {
	raw, malformed, err := uc.source.Read(ctx, path)
	if err != nil {
		uc.logger.Error("Failed to read complaints", zap.String("path", path), zap.Error(err))
		return nil, domain.CleanSummary{}, err
	}

	records, summary := uc.Clean(raw)
	if malformed > 0 {
		summary.Dropped[domain.DropMalformedLine] += malformed
		summary.RowsRead += malformed
	}

	uc.logger.Info("Cleaned data",
		zap.Int("rows", summary.RowsKept),
		zap.Int("boroughs", summary.DistinctBoroughs),
		zap.Int("rows_read", summary.RowsRead),
		zap.Any("dropped", summary.Dropped))

	return records, summary, nil
}

// Clean применяет правила очистки к сырым строкам. Строки с ошибками
// отбрасываются и учитываются в сводке, ошибка не возвращается никогда.
func (uc *CleaningUseCase) Clean(raw []domain.RawComplaint) ([]domain.Complaint, domain.CleanSummary) {
	summary := domain.CleanSummary{
		RowsRead: len(raw),
		Dropped:  make(map[domain.DropReason]int),
	}

	records := make([]domain.Complaint, 0, len(raw))
	boroughs := make(map[domain.Borough]struct{})

	for _, row := range raw {
		record, reason, ok := cleanRow(row)
		if !ok {
			summary.Dropped[reason]++
			continue
		}
		boroughs[record.Borough] = struct{}{}
		records = append(records, record)
	}

	summary.RowsKept = len(records)
	summary.DistinctBoroughs = len(boroughs)
	return records, summary
}

func cleanRow(row domain.RawComplaint) (domain.Complaint, domain.DropReason, bool) {
	from, ok := parseDateTime(row.Get(domain.ColFromDate), row.Get(domain.ColFromTime))
	if !ok {
		return domain.Complaint{}, domain.DropBadReportDate, false
	}

	precinctRaw := strings.TrimSpace(row.Get(domain.ColPrecinct))
	if precinctRaw == "" {
		return domain.Complaint{}, domain.DropMissingPrecinct, false
	}
	boroughRaw := strings.TrimSpace(row.Get(domain.ColBorough))
	if boroughRaw == "" {
		return domain.Complaint{}, domain.DropMissingBorough, false
	}

	precinct, ok := parsePrecinct(precinctRaw)
	if !ok {
		return domain.Complaint{}, domain.DropBadPrecinct, false
	}

	borough, ok := domain.ParseBorough(boroughRaw)
	if !ok {
		return domain.Complaint{}, domain.DropUnknownBorough, false
	}

	lat := parseCoordinate(row.Get(domain.ColLatitude))
	lon := parseCoordinate(row.Get(domain.ColLongitude))
	if lat != nil && lon != nil && !utils.InNYC(*lat, *lon) {
		return domain.Complaint{}, domain.DropOutOfBounds, false
	}

	record := domain.Complaint{
		ID:           strings.TrimSpace(row.Get(domain.ColComplaintID)),
		ReportedFrom: from,
		Offense:      normalizeOffense(row.Get(domain.ColOffense)),
		LawCategory:  strings.TrimSpace(row.Get(domain.ColLawCategory)),
		Borough:      borough,
		Precinct:     precinct,
		Latitude:     lat,
		Longitude:    lon,
		Month:        domain.MonthStart(from),
	}
	if to, ok := parseDateTime(row.Get(domain.ColToDate), row.Get(domain.ColToTime)); ok {
		record.ReportedTo = &to
	}

	return record, "", true
}

// parseDateTime разбирает дату и, если удается, добавляет к ней время суток
func parseDateTime(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}

	var (
		parsed time.Time
		found  bool
	)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			parsed, found = t, true
			break
		}
	}
	if !found || parsed.Year() < minReportYear || parsed.Year() > maxReportYear {
		return time.Time{}, false
	}

	if tod, err := time.Parse("15:04:05", strings.TrimSpace(clock)); err == nil &&
		parsed.Hour() == 0 && parsed.Minute() == 0 && parsed.Second() == 0 {
		parsed = parsed.Add(time.Duration(tod.Hour())*time.Hour +
			time.Duration(tod.Minute())*time.Minute +
			time.Duration(tod.Second())*time.Second)
	}

	return parsed, true
}

// parsePrecinct принимает "14" и "14.0", отвергает дробные и отрицательные значения
func parsePrecinct(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 {
		return 0, false
	}
	return int(f), true
}

func parseCoordinate(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func normalizeOffense(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return domain.UnknownOffense
	}
	return s
}
