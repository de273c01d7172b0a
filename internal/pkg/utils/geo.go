package utils

import (
	"math"

	"github.com/golang/geo/s2"
)

// Границы Нью-Йорка, за пределами которых точки считаются выбросами
const (
	NYCMinLat = 40.45
	NYCMaxLat = 40.95
	NYCMinLon = -74.30
	NYCMaxLon = -73.65
)

var nycRect = s2.RectFromLatLng(s2.LatLngFromDegrees(NYCMinLat, NYCMinLon)).
	AddPoint(s2.LatLngFromDegrees(NYCMaxLat, NYCMaxLon))

// InNYC проверяет, что точка лежит внутри прямоугольника NYC (границы включаются)
func InNYC(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return nycRect.ContainsLatLng(s2.LatLngFromDegrees(lat, lon))
}

// GridCell - ячейка сетки, полученная округлением координат до фиксированной точности
type GridCell struct {
	LatKey int64
	LonKey int64
}

// CellOf округляет координаты до places знаков (half-to-even), 3 знака ≈ 100 м
func CellOf(lat, lon float64, places int) GridCell {
	scale := math.Pow(10, float64(places))
	return GridCell{
		LatKey: int64(math.RoundToEven(lat * scale)),
		LonKey: int64(math.RoundToEven(lon * scale)),
	}
}
