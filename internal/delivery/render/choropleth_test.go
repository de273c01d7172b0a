package render_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/delivery/render"
	"github.com/crime-analytics/internal/pkg/errors"
)

func precinctFeature(precinct interface{}, lon, lat float64) *geojson.Feature {
	f := geojson.NewPolygonFeature([][][]float64{{
		{lon, lat}, {lon + 0.01, lat}, {lon + 0.01, lat + 0.01}, {lon, lat + 0.01}, {lon, lat},
	}})
	f.SetProperty("precinct", precinct)
	return f
}

func TestPrecinctOf(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int
		ok    bool
	}{
		{"string", "14", 14, true},
		{"float string", "75.0", 75, true},
		{"number", float64(120), 120, true},
		{"fractional", 1.5, 0, false},
		{"garbage", "n/a", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := render.PrecinctOf(precinctFeature(tt.value, -73.9, 40.7), "precinct")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := render.PrecinctOf(precinctFeature("14", -73.9, 40.7), "pct")
	assert.False(t, ok)
}

func TestQuantileBreaks(t *testing.T) {
	assert.Nil(t, render.QuantileBreaks(nil, 6))
	assert.Nil(t, render.QuantileBreaks(map[int]int{1: 0}, 6))

	breaks := render.QuantileBreaks(map[int]int{1: 10, 5: 20, 6: 30, 7: 40, 9: 50, 10: 60, 13: 70}, 6)
	require.Len(t, breaks, 5)
	for i := 1; i < len(breaks); i++ {
		assert.LessOrEqual(t, breaks[i-1], breaks[i])
	}

	assert.Equal(t, 0, render.ClassOf(10, breaks))
	assert.Equal(t, 5, render.ClassOf(70, breaks))
}

func TestChoroplethRenderer_RenderTo(t *testing.T) {
	boundaries := geojson.NewFeatureCollection()
	boundaries.AddFeature(precinctFeature("1", -74.01, 40.70))
	boundaries.AddFeature(precinctFeature(float64(14), -73.99, 40.75))
	boundaries.AddFeature(precinctFeature("75", -73.88, 40.67))

	r := render.NewChoroplethRenderer("precinct", zap.NewNop())

	t.Run("layers and colors", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.RenderTo(&buf, boundaries, []render.ChoroplethLayer{
			{Name: "All crimes", Counts: map[int]int{1: 5, 14: 50, 75: 500, 999: 3}},
			{Name: "ROBBERY", Counts: map[int]int{75: 7}},
		})
		require.NoError(t, err)

		html := buf.String()
		assert.Contains(t, html, "All crimes")
		assert.Contains(t, html, "ROBBERY")
		assert.Contains(t, html, "crime_count")
		assert.Contains(t, html, "#bd0026")
		assert.Contains(t, html, "#ffffb2")
		assert.Contains(t, html, "#f0f0f0")
	})

	t.Run("source features are not modified", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.RenderTo(&buf, boundaries, []render.ChoroplethLayer{{Name: "All crimes", Counts: map[int]int{1: 1}}}))
		_, has := boundaries.Features[0].Properties[render.CountProperty]
		assert.False(t, has)
	})

	t.Run("no boundaries", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.RenderTo(&buf, geojson.NewFeatureCollection(), nil)
		assert.True(t, stderrors.Is(err, errors.ErrRenderFailed))
	})
}
