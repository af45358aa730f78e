package writer

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// TrackSummary describes one display document on disk.
type TrackSummary struct {
	ID     model.VehicleID
	Name   string
	Points int
	// Last is the final [longitude, latitude, depth] position, nil for an
	// empty track.
	Last []float64
}

// Summaries reads every display document below outputDir, ordered by
// vehicle.
func Summaries(fs afero.Fs, outputDir string) ([]TrackSummary, error) {
	paths, err := afero.Glob(fs, filepath.Join(outputDir, DisplayDir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	out := make([]TrackSummary, 0, len(paths))
	for _, p := range paths {
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return nil, err
		}
		s, err := summarize(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		s.ID = model.VehicleID(strings.TrimSuffix(filepath.Base(p), ".geojson"))
		out = append(out, s)
	}
	return out, nil
}

func summarize(data []byte) (TrackSummary, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return TrackSummary{}, err
	}

	var s TrackSummary
	for _, f := range fc.Features {
		line, ok := f.Geometry.(*geom.LineString)
		if !ok {
			continue
		}
		if name, ok := f.Properties["name"].(string); ok {
			s.Name = name
		}
		s.Points += line.NumCoords()
		if n := line.NumCoords(); n > 0 {
			s.Last = line.Coord(n - 1)
		}
	}
	return s, nil
}
