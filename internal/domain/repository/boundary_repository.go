package repository

import (
	"context"

	geojson "github.com/paulmach/go.geojson"
)

// BoundaryRepository загружает полигоны участков полиции
type BoundaryRepository interface {
	LoadPrecincts(ctx context.Context, path string) (*geojson.FeatureCollection, error)
}
