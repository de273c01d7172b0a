package render_test

import (
	stderrors "errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/delivery/render"
	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/pkg/errors"
)

func ptr(v float64) *float64 { return &v }

func forecastTable() domain.ForecastTable {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]domain.ForecastRow, 0, 30)
	for i := 0; i < 24; i++ {
		row := domain.ForecastRow{Month: domain.AddMonths(start, i), Actual: ptr(float64(8000 + i*15))}
		if i >= 18 {
			row.Forecast = ptr(float64(8200 + i))
		}
		rows = append(rows, row)
	}
	for i := 24; i < 30; i++ {
		rows = append(rows, domain.ForecastRow{Month: domain.AddMonths(start, i), Forecast: ptr(float64(8300 + i))})
	}
	return domain.ForecastTable{Rows: rows}
}

func TestChartRenderer_Draw(t *testing.T) {
	r := render.NewChartRenderer(zap.NewNop())

	t.Run("image size", func(t *testing.T) {
		img, err := r.Draw(forecastTable(), domain.StatenIsland)
		require.NoError(t, err)
		assert.Equal(t, render.ChartWidth, img.Bounds().Dx())
		assert.Equal(t, render.ChartHeight, img.Bounds().Dy())
	})

	t.Run("single row", func(t *testing.T) {
		table := domain.ForecastTable{Rows: []domain.ForecastRow{
			{Month: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), Actual: ptr(5)},
		}}
		_, err := r.Draw(table, domain.Queens)
		assert.NoError(t, err)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := r.Draw(domain.ForecastTable{}, domain.Queens)
		assert.True(t, stderrors.Is(err, errors.ErrRenderFailed))
	})

	t.Run("table without values", func(t *testing.T) {
		table := domain.ForecastTable{Rows: []domain.ForecastRow{
			{Month: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
		}}
		_, err := r.Draw(table, domain.Queens)
		assert.True(t, stderrors.Is(err, errors.ErrRenderFailed))
	})
}

func TestChartRenderer_RenderForecast(t *testing.T) {
	r := render.NewChartRenderer(zap.NewNop())
	path := filepath.Join(t.TempDir(), "forecast_"+domain.StatenIsland.Slug()+".png")

	require.NoError(t, r.RenderForecast(forecastTable(), domain.StatenIsland, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.Width)
	assert.Equal(t, 750, cfg.Height)
}
