package writer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// DefaultDescription is the description property of every track feature
// unless configured otherwise.
const DefaultDescription = "vehicle navigation log"

const indent = "    "

// EncodeTrack renders obs as a FeatureCollection holding one LineString
// feature with [longitude, latitude, depth] positions. An empty track gives
// a collection without features.
func EncodeTrack(name, description string, obs []model.Observation) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}

	if len(obs) > 0 {
		coords := make([]geom.Coord, len(obs))
		for i, o := range obs {
			coords[i] = geom.Coord(o.Coordinate())
		}
		line, err := geom.NewLineString(geom.XYZ).SetCoords(coords)
		if err != nil {
			return nil, fmt.Errorf("build line string: %w", err)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: line,
			Properties: map[string]interface{}{
				"name":        name,
				"description": description,
			},
		})
	}

	raw, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal feature collection: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
