package geojsonfile

import (
	"context"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"

	"github.com/crime-analytics/internal/domain/repository"
	"github.com/crime-analytics/internal/pkg/errors"
)

type precinctRepository struct {
	logger *zap.Logger
}

func NewPrecinctRepository(logger *zap.Logger) repository.BoundaryRepository {
	return &precinctRepository{logger: logger}
}

// LoadPrecincts читает полигоны участков из GeoJSON FeatureCollection
func (r *precinctRepository) LoadPrecincts(ctx context.Context, path string) (*geojson.FeatureCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		r.logger.Error("Failed to read precinct boundaries", zap.String("path", path), zap.Error(err))
		return nil, errors.ErrBoundaryFile.WithDetails(map[string]interface{}{
			"path":   path,
			"reason": err.Error(),
		})
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, errors.ErrBoundaryFile.WithDetails(map[string]interface{}{
			"path":   path,
			"reason": err.Error(),
		})
	}

	polygons := 0
	for _, f := range fc.Features {
		if f.Geometry != nil && (f.Geometry.IsPolygon() || f.Geometry.IsMultiPolygon()) {
			polygons++
		}
	}
	if polygons == 0 {
		return nil, errors.ErrBoundaryFile.WithDetails(map[string]interface{}{
			"path":   path,
			"reason": "no polygon features",
		})
	}

	r.logger.Info("Loaded precinct boundaries",
		zap.String("path", path),
		zap.Int("features", len(fc.Features)),
		zap.Int("polygons", polygons))
	return fc, nil
}
