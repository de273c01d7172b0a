package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/pkg/errors"
)

// Размер графика: 10x5 дюймов при 150 dpi
const (
	ChartWidth  = 1500
	ChartHeight = 750
)

const (
	marginLeft   = 120.0
	marginRight  = 40.0
	marginTop    = 70.0
	marginBottom = 100.0
	maxXTicks    = 12
	yTicks       = 6
)

var (
	actualColor   = color.RGBA{31, 119, 180, 255}
	forecastColor = color.RGBA{255, 127, 14, 255}
	gridColor     = color.RGBA{220, 220, 220, 255}
	axisColor     = color.RGBA{60, 60, 60, 255}
)

// ChartRenderer рисует PNG с фактическими и прогнозными значениями
type ChartRenderer struct {
	logger *zap.Logger
}

func NewChartRenderer(logger *zap.Logger) *ChartRenderer {
	return &ChartRenderer{logger: logger}
}

// RenderForecast сохраняет график прогноза округа в path
func (r *ChartRenderer) RenderForecast(table domain.ForecastTable, borough domain.Borough, path string) error {
	img, err := r.Draw(table, borough)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}

	r.logger.Info("Saved plot", zap.String("path", path), zap.String("borough", borough.String()))
	return f.Close()
}

// Draw строит изображение графика. Линии прерываются на отсутствующих значениях.
func (r *ChartRenderer) Draw(table domain.ForecastTable, borough domain.Borough) (image.Image, error) {
	if table.Len() == 0 {
		return nil, errors.ErrRenderFailed.WithDetails(map[string]interface{}{
			"reason":  "empty forecast table",
			"borough": borough.String(),
		})
	}

	lo, hi, ok := valueRange(table)
	if !ok {
		return nil, errors.ErrRenderFailed.WithDetails(map[string]interface{}{
			"reason":  "forecast table has no values",
			"borough": borough.String(),
		})
	}

	dc := gg.NewContext(ChartWidth, ChartHeight)
	dc.SetColor(color.White)
	dc.Clear()

	plotW := float64(ChartWidth) - marginLeft - marginRight
	plotH := float64(ChartHeight) - marginTop - marginBottom

	n := table.Len()
	xOf := func(i int) float64 {
		if n == 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(i)/float64(n-1)
	}
	yOf := func(v float64) float64 {
		return marginTop + plotH*(1-(v-lo)/(hi-lo))
	}

	// сетка и подписи оси Y
	dc.SetLineWidth(1)
	for i := 0; i <= yTicks; i++ {
		v := lo + (hi-lo)*float64(i)/yTicks
		y := yOf(v)
		dc.SetColor(gridColor)
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()
		dc.SetColor(axisColor)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", v), marginLeft-10, y, 1, 0.5)
	}

	// подписи месяцев
	step := int(math.Ceil(float64(n) / maxXTicks))
	for i := 0; i < n; i += step {
		x := xOf(i)
		dc.SetColor(axisColor)
		dc.DrawLine(x, marginTop+plotH, x, marginTop+plotH+6)
		dc.Stroke()
		dc.DrawStringAnchored(table.Rows[i].Month.Format("2006-01"), x, marginTop+plotH+20, 0.5, 0.5)
	}

	// оси
	dc.SetColor(axisColor)
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(marginLeft, marginTop, plotW, plotH)
	dc.Stroke()

	drawSeries(dc, table, func(row domain.ForecastRow) *float64 { return row.Actual }, xOf, yOf, actualColor)
	drawSeries(dc, table, func(row domain.ForecastRow) *float64 { return row.Forecast }, xOf, yOf, forecastColor)

	// заголовок и подписи осей
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(fmt.Sprintf("Monthly crime counts forecast – %s", borough.Title()),
		float64(ChartWidth)/2, marginTop/2, 0.5, 0.5)
	dc.DrawStringAnchored("Month", marginLeft+plotW/2, float64(ChartHeight)-marginBottom/3, 0.5, 0.5)

	dc.Push()
	dc.RotateAbout(gg.Radians(-90), marginLeft/4, marginTop+plotH/2)
	dc.DrawStringAnchored("Number of complaints", marginLeft/4, marginTop+plotH/2, 0.5, 0.5)
	dc.Pop()

	drawLegend(dc, marginLeft+16, marginTop+16)

	return dc.Image(), nil
}

func drawSeries(dc *gg.Context, table domain.ForecastTable, pick func(domain.ForecastRow) *float64,
	xOf func(int) float64, yOf func(float64) float64, c color.Color) {
	dc.SetColor(c)
	dc.SetLineWidth(2.5)

	open := false
	for i, row := range table.Rows {
		v := pick(row)
		if v == nil {
			if open {
				dc.Stroke()
				open = false
			}
			continue
		}
		x, y := xOf(i), yOf(*v)
		if !open {
			dc.MoveTo(x, y)
			open = true
		} else {
			dc.LineTo(x, y)
		}
	}
	if open {
		dc.Stroke()
	}
}

func drawLegend(dc *gg.Context, x, y float64) {
	dc.SetColor(color.White)
	dc.DrawRectangle(x, y, 120, 50)
	dc.FillPreserve()
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	dc.Stroke()

	entries := []struct {
		label string
		c     color.Color
	}{
		{"Actual", actualColor},
		{"Forecast", forecastColor},
	}
	for i, e := range entries {
		ly := y + 15 + float64(i)*20
		dc.SetColor(e.c)
		dc.SetLineWidth(2.5)
		dc.DrawLine(x+10, ly, x+40, ly)
		dc.Stroke()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(e.label, x+50, ly, 0, 0.5)
	}
}

// valueRange - минимум и максимум по обеим колонкам с запасом 5%
func valueRange(table domain.ForecastTable) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range table.Rows {
		for _, v := range []*float64{row.Actual, row.Forecast} {
			if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
				continue
			}
			lo = math.Min(lo, *v)
			hi = math.Max(hi, *v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	if hi == lo {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		return lo - pad, hi + pad, true
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad, true
}
