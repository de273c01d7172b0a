package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/pkg/errors"
	"github.com/crime-analytics/internal/pkg/utils"
)

// Свойства, которые добавляются к полигонам участков
const (
	CountProperty = "crime_count"
	FillProperty  = "fill"
)

const noDataColor = "#f0f0f0"

// choroplethScale - 6 классов от светлого к темному
var choroplethScale = []string{"#ffffb2", "#fed976", "#feb24c", "#fd8d3c", "#f03b20", "#bd0026"}

// ChoroplethLayer - число жалоб по участкам для одного слоя
type ChoroplethLayer struct {
	Name   string
	Counts map[int]int
}

type choroplethLayerView struct {
	Name     string
	Show     bool
	Features template.JS
	Breaks   []float64
}

type choroplethPage struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Layers    []choroplethLayerView
	Scale     []string
	NoData    string
	Property  string
}

// ChoroplethRenderer раскрашивает полигоны участков по числу жалоб
type ChoroplethRenderer struct {
	precinctProperty string
	logger           *zap.Logger
}

func NewChoroplethRenderer(precinctProperty string, logger *zap.Logger) *ChoroplethRenderer {
	return &ChoroplethRenderer{
		precinctProperty: precinctProperty,
		logger:           logger,
	}
}

// Render пишет HTML с одним слоем на каждый элемент layers; видим только первый
func (r *ChoroplethRenderer) Render(boundaries *geojson.FeatureCollection, layers []ChoroplethLayer, path string) error {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, boundaries, layers); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write choropleth: %w", err)
	}

	r.logger.Info("Choropleth saved", zap.String("path", path), zap.Int("layers", len(layers)))
	return nil
}

func (r *ChoroplethRenderer) RenderTo(w io.Writer, boundaries *geojson.FeatureCollection, layers []ChoroplethLayer) error {
	if boundaries == nil || len(boundaries.Features) == 0 {
		return errors.ErrRenderFailed.WithDetails(map[string]interface{}{
			"reason": "no precinct boundaries",
		})
	}

	page := choroplethPage{
		CenterLat: MapCenterLat,
		CenterLon: MapCenterLon,
		Zoom:      MapZoom - 1,
		Scale:     choroplethScale,
		NoData:    noDataColor,
		Property:  r.precinctProperty,
	}

	for i, layer := range layers {
		colored, breaks, unmatched := r.colorize(boundaries, layer.Counts)
		if unmatched > 0 {
			r.logger.Warn("Precinct counts without a matching polygon",
				zap.String("layer", layer.Name),
				zap.Int("precincts", unmatched))
		}

		raw, err := colored.MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to encode layer %q: %w", layer.Name, err)
		}

		page.Layers = append(page.Layers, choroplethLayerView{
			Name:     layer.Name,
			Show:     i == 0,
			Features: template.JS(raw),
			Breaks:   breaks,
		})
	}

	if err := choroplethTemplate.Execute(w, page); err != nil {
		return errors.ErrRenderFailed.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return nil
}

// colorize копирует полигоны и добавляет к ним число жалоб и цвет заливки
func (r *ChoroplethRenderer) colorize(boundaries *geojson.FeatureCollection, counts map[int]int) (*geojson.FeatureCollection, []float64, int) {
	breaks := QuantileBreaks(counts, len(choroplethScale))

	fc := geojson.NewFeatureCollection()
	matched := make(map[int]bool)
	for _, src := range boundaries.Features {
		f := geojson.NewFeature(src.Geometry)
		for k, v := range src.Properties {
			f.Properties[k] = v
		}

		precinct, ok := PrecinctOf(src, r.precinctProperty)
		n, has := counts[precinct]
		if !ok || !has {
			f.SetProperty(CountProperty, 0)
			f.SetProperty(FillProperty, noDataColor)
		} else {
			matched[precinct] = true
			f.SetProperty(CountProperty, n)
			f.SetProperty(FillProperty, choroplethScale[ClassOf(float64(n), breaks)])
		}
		fc.AddFeature(f)
	}

	return fc, breaks, len(counts) - len(matched)
}

// PrecinctOf читает номер участка из свойства полигона; GeoJSON хранит его
// то строкой, то числом
func PrecinctOf(f *geojson.Feature, property string) (int, bool) {
	v, ok := f.Properties[property]
	if !ok || v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		if val != math.Trunc(val) {
			return 0, false
		}
		return int(val), true
	case int:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil || num != math.Trunc(num) {
			return 0, false
		}
		return int(num), true
	default:
		return 0, false
	}
}

// QuantileBreaks - границы классов по квантилям ненулевых значений
func QuantileBreaks(counts map[int]int, classes int) []float64 {
	values := make([]float64, 0, len(counts))
	for _, n := range counts {
		if n > 0 {
			values = append(values, float64(n))
		}
	}
	if len(values) == 0 || classes < 2 {
		return nil
	}

	breaks := make([]float64, 0, classes-1)
	for i := 1; i < classes; i++ {
		breaks = append(breaks, utils.Quantile(values, float64(i)/float64(classes)))
	}
	return breaks
}

// ClassOf - номер класса для значения: число границ, которые оно превышает
func ClassOf(v float64, breaks []float64) int {
	class := 0
	for _, b := range breaks {
		if v > b {
			class++
		}
	}
	return class
}

var choroplethTemplate = template.Must(template.New("choropleth").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>NYC crime by precinct</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
.legend {
	position: fixed; bottom: 25px; left: 25px; z-index: 9999;
	background: white; padding: 10px 14px; border: 2px solid #555;
	border-radius: 6px; font-size: 12px;
}
.legend i { display: inline-block; width: 14px; height: 14px; margin-right: 6px; vertical-align: middle; }
</style>
</head>
<body>
<div id="map"></div>
<div class="legend">
	<div><b>Complaints per precinct</b></div>
	{{range .Scale}}<div><i style="background: {{.}}"></i></div>{{end}}
	<div><i style="background: {{.NoData}}"></i>no data</div>
</div>
<script>
var map = L.map("map").setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer("https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png", {
	attribution: "&copy; OpenStreetMap contributors &copy; CARTO",
	subdomains: "abcd",
	maxZoom: 20
}).addTo(map);

var overlays = {};
{{range .Layers}}
(function () {
	var layer = L.geoJSON({{.Features}}, {
		style: function (feature) {
			return {
				fillColor: feature.properties.fill,
				fillOpacity: 0.7,
				color: "#555",
				weight: 1
			};
		},
		onEachFeature: function (feature, l) {
			l.bindTooltip("Precinct " + feature.properties[{{$.Property}}] + ": " + feature.properties.crime_count);
		}
	});
	if ({{.Show}}) {
		layer.addTo(map);
	}
	overlays[{{.Name}}] = layer;
})();
{{end}}
L.control.layers(overlays, null, { collapsed: false }).addTo(map);
</script>
</body>
</html>
`))
