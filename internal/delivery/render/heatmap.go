package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain"
	"github.com/crime-analytics/internal/pkg/errors"
	"github.com/crime-analytics/internal/pkg/utils"
)

// Параметры карты и слоев
const (
	MapCenterLat   = 40.73
	MapCenterLon   = -73.96
	MapZoom        = 12
	HeatRadius     = 12
	HeatBlur       = 20
	HeatMaxZoom    = 14
	AllCrimesLayer = "All crimes"

	allCrimesOpacity = 0.55
	offenseOpacity   = 0.60
	legendPlaces     = 3
	defaultTopK      = 6
)

// Gradient - цветовая шкала слоя: доля интенсивности -> цвет
type Gradient map[string]string

var allCrimesGradient = Gradient{
	"0.2": "#b2df8a",
	"0.4": "#66c2a5",
	"0.6": "#41ae76",
	"0.8": "#238b45",
	"1.0": "#005824",
}

// offenseGradients назначаются слоям правонарушений по кругу
var offenseGradients = []Gradient{
	{"0.2": "#fcae91", "0.4": "#fb6a4a", "0.6": "#ef3b2c", "0.8": "#cb181d", "1.0": "#99000d"},
	{"0.2": "#bdd7e7", "0.4": "#6baed6", "0.6": "#3182bd", "0.8": "#08519c", "1.0": "#08306b"},
	{"0.2": "#dadaeb", "0.4": "#bcbddc", "0.6": "#9e9ac8", "0.8": "#756bb1", "1.0": "#54278f"},
	{"0.2": "#fdd0a2", "0.4": "#fdae6b", "0.6": "#fd8d3c", "0.8": "#e6550d", "1.0": "#a63603"},
	{"0.2": "#c7e9c0", "0.4": "#74c476", "0.6": "#41ab5d", "0.8": "#238b45", "1.0": "#005a32"},
	{"0.2": "#cccccc", "0.4": "#969696", "0.6": "#636363", "0.8": "#252525", "1.0": "#000000"},
}

// OffenseGradient возвращает градиент для idx-го слоя правонарушения
func OffenseGradient(idx int) Gradient {
	return offenseGradients[idx%len(offenseGradients)]
}

// HeatLayer - один слой тепловой карты
type HeatLayer struct {
	Name       string       `json:"name"`
	Show       bool         `json:"show"`
	MinOpacity float64      `json:"minOpacity"`
	Gradient   Gradient     `json:"gradient"`
	Points     [][2]float64 `json:"points"`
}

type heatmapPage struct {
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	Radius      int
	Blur        int
	MaxZoom     int
	Layers      []HeatLayer
	Legend      domain.LegendBands
	PeriodLabel string
}

// HeatmapRenderer строит HTML тепловой карты с отдельным слоем на каждое правонарушение
type HeatmapRenderer struct {
	periodLabel string
	topK        int
	logger      *zap.Logger
}

func NewHeatmapRenderer(periodLabel string, topK int, logger *zap.Logger) *HeatmapRenderer {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &HeatmapRenderer{
		periodLabel: periodLabel,
		topK:        topK,
		logger:      logger,
	}
}

// Render пишет карту в path. Если offenses == nil, берутся topK самых частых
// правонарушений среди точек с координатами.
func (r *HeatmapRenderer) Render(records []domain.Complaint, offenses []string, path string) (*domain.MapRun, error) {
	var buf bytes.Buffer
	run, err := r.RenderTo(&buf, records, offenses)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write heatmap: %w", err)
	}

	r.logger.Info("Filterable heatmap saved",
		zap.String("path", path),
		zap.Strings("offenses", run.Offenses),
		zap.Int("points", run.Points))
	return run, nil
}

// RenderTo пишет HTML карты в w
func (r *HeatmapRenderer) RenderTo(w io.Writer, records []domain.Complaint, offenses []string) (*domain.MapRun, error) {
	points, byOffense, order := collectPoints(records)

	if offenses == nil {
		offenses = rankOffenses(byOffense, order, r.topK)
	}

	all := make([]domain.HeatPoint, 0, len(points))
	for _, p := range points {
		all = append(all, p.HeatPoint)
	}
	legend := ComputeLegendBands(all)

	layers := []HeatLayer{{
		Name:       AllCrimesLayer,
		Show:       true,
		MinOpacity: allCrimesOpacity,
		Gradient:   allCrimesGradient,
		Points:     toLatLon(all),
	}}

	plotted := make([]string, 0, len(offenses))
	for idx, name := range offenses {
		sub := byOffense[name]
		if len(sub) == 0 {
			r.logger.Debug("Skipping offense without points", zap.String("offense", name))
			continue
		}
		layers = append(layers, HeatLayer{
			Name:       name,
			Show:       false,
			MinOpacity: offenseOpacity,
			Gradient:   OffenseGradient(idx),
			Points:     toLatLon(sub),
		})
		plotted = append(plotted, name)
	}

	page := heatmapPage{
		CenterLat:   MapCenterLat,
		CenterLon:   MapCenterLon,
		Zoom:        MapZoom,
		Radius:      HeatRadius,
		Blur:        HeatBlur,
		MaxZoom:     HeatMaxZoom,
		Layers:      layers,
		Legend:      legend,
		PeriodLabel: r.periodLabel,
	}
	if err := heatmapTemplate.Execute(w, page); err != nil {
		return nil, errors.ErrRenderFailed.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	return &domain.MapRun{
		Offenses: plotted,
		Legend:   legend,
		Points:   len(all),
	}, nil
}

// ComputeLegendBands считает пороги легенды по числу точек в ячейках сетки ~100 м
func ComputeLegendBands(points []domain.HeatPoint) domain.LegendBands {
	cells := make(map[utils.GridCell]int)
	for _, p := range points {
		cells[utils.CellOf(p.Lat, p.Lon, legendPlaces)]++
	}
	if len(cells) == 0 {
		return domain.LegendBands{LowMax: 1, MedMax: 2, HighMax: 3}
	}

	counts := make([]float64, 0, len(cells))
	for _, n := range cells {
		counts = append(counts, float64(n))
	}

	q20 := int(utils.Quantile(counts, 0.2))
	q50 := int(utils.Quantile(counts, 0.5))
	q80 := int(utils.Quantile(counts, 0.8))

	low := max(q20, 1)
	med := max(q50, low+1)
	high := max(q80, med+1)
	return domain.LegendBands{LowMax: low, MedMax: med, HighMax: high}
}

type offensePoint struct {
	domain.HeatPoint
	offense string
}

// collectPoints оставляет только записи с координатами внутри NYC
func collectPoints(records []domain.Complaint) ([]offensePoint, map[string][]domain.HeatPoint, []string) {
	points := make([]offensePoint, 0, len(records))
	byOffense := make(map[string][]domain.HeatPoint)
	order := make([]string, 0)

	for _, rec := range records {
		if !rec.HasCoordinates() || !utils.InNYC(*rec.Latitude, *rec.Longitude) {
			continue
		}
		p := domain.HeatPoint{Lat: *rec.Latitude, Lon: *rec.Longitude}
		points = append(points, offensePoint{HeatPoint: p, offense: rec.Offense})
		if _, seen := byOffense[rec.Offense]; !seen {
			order = append(order, rec.Offense)
		}
		byOffense[rec.Offense] = append(byOffense[rec.Offense], p)
	}
	return points, byOffense, order
}

func rankOffenses(byOffense map[string][]domain.HeatPoint, order []string, k int) []string {
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(byOffense[ranked[i]]) > len(byOffense[ranked[j]])
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func toLatLon(points []domain.HeatPoint) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p.Lat, p.Lon}
	}
	return out
}

var heatmapTemplate = template.Must(template.New("heatmap").Funcs(template.FuncMap{
	"inc": func(n int) int { return n + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>NYC crime heatmap</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
.legend {
	position: fixed; bottom: 25px; left: 25px; z-index: 9999;
	background: white; padding: 10px 14px; border: 2px solid #555;
	border-radius: 6px; font-size: 13px; box-shadow: 2px 2px 6px rgba(0,0,0,0.3);
}
.legend .title { font-weight: bold; margin-bottom: 6px; }
.legend .body { font-size: 12px; line-height: 1.4; }
</style>
</head>
<body>
<div id="map"></div>
<div class="legend">
	<div class="title">Crime heatmap intensity ({{.PeriodLabel}})</div>
	<div class="body">
		This map shows <b>where</b> {{.PeriodLabel}} incidents are concentrated.<br>
		• Lighter color ≈ grid cells with about 1–{{.Legend.LowMax}} incidents.<br>
		• Medium color ≈ cells with ~{{.Legend.LowMax | inc}}–{{.Legend.MedMax}} incidents.<br>
		• Darker hotspots ≈ cells with &gt;{{.Legend.HighMax}} incidents.<br>
		(Counts are approximate; the heatmap uses smoothing.)
	</div>
</div>
<script>
var map = L.map("map").setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer("https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png", {
	attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
	subdomains: "abcd",
	maxZoom: 20
}).addTo(map);

var layers = {{.Layers}};
var overlays = {};
layers.forEach(function (layer) {
	var heat = L.heatLayer(layer.points, {
		radius: {{.Radius}},
		blur: {{.Blur}},
		maxZoom: {{.MaxZoom}},
		minOpacity: layer.minOpacity,
		gradient: layer.gradient
	});
	var group = L.layerGroup([heat]);
	if (layer.show) {
		group.addTo(map);
	}
	overlays[layer.name] = group;
});
L.control.layers(null, overlays, { collapsed: false }).addTo(map);
</script>
</body>
</html>
`))
