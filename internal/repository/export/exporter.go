package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain"
)

const monthLayout = "2006-01-02"

// Exporter пишет производные таблицы в файлы каталога вывода
type Exporter struct {
	logger *zap.Logger
}

func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// WriteMonthlyCounts сохраняет помесячные счетчики по округам: MONTH, BORO_NM, crime_count
func (e *Exporter) WriteMonthlyCounts(path string, rows []domain.MonthlyCount) error {
	months := make([]string, len(rows))
	boroughs := make([]string, len(rows))
	counts := make([]int, len(rows))
	for i, row := range rows {
		months[i] = row.Month.Format(monthLayout)
		boroughs[i] = row.Borough.String()
		counts[i] = row.Count
	}

	df := dataframe.New(
		series.New(months, series.String, "MONTH"),
		series.New(boroughs, series.String, domain.ColBorough),
		series.New(counts, series.Int, "crime_count"),
	)
	if df.Err != nil {
		return fmt.Errorf("failed to build monthly table: %w", df.Err)
	}

	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write monthly counts: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	e.logger.Info("Saved monthly counts", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

// WriteForecastTable сохраняет таблицу прогноза: MONTH, actual, forecast.
// Отсутствующее значение пишется пустой ячейкой.
func (e *Exporter) WriteForecastTable(path string, table domain.ForecastTable) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"MONTH", "actual", "forecast"}); err != nil {
		return fmt.Errorf("failed to write forecast header: %w", err)
	}
	for _, row := range table.Rows {
		record := []string{row.Month.Format(monthLayout), formatValue(row.Actual), formatValue(row.Forecast)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write forecast row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush forecast table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	e.logger.Info("Saved forecast table", zap.String("path", path), zap.Int("rows", table.Len()))
	return nil
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// create создает файл вместе с недостающими каталогами
func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
