package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain"
)

// SummarySheet - лист со сводкой по всем прогнозам
const SummarySheet = "Summary"

var summaryHeader = []interface{}{"Borough", "Order", "Points", "RMSE", "MAE", "MAPE", "AIC", "ADF p-value"}

// WriteForecastWorkbook сохраняет XLSX: лист Summary и по листу на каждый округ
func (e *Exporter) WriteForecastWorkbook(path string, results []*domain.ForecastResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for i, result := range results {
		row := []interface{}{
			result.Borough.Title(),
			result.Order.String(),
			result.Points,
			result.Metrics.RMSE,
			result.Metrics.MAE,
			result.Metrics.MAPE,
			optional(result.AIC),
			optional(result.ADFPValue),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}

		if err := writeTableSheet(f, result); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Saved forecast workbook", zap.String("path", path), zap.Int("sheets", len(results)+1))
	return nil
}

func writeTableSheet(f *excelize.File, result *domain.ForecastResult) error {
	sheet := result.Borough.Title()
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []interface{}{"MONTH", "actual", "forecast"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range result.Table.Rows {
		row := []interface{}{r.Month.Format(monthLayout), optional(r.Actual), optional(r.Forecast)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// optional превращает nil в пустую ячейку
func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
