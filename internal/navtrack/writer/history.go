package writer

import (
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

const historyTimeLayout = "20060102150405"

// History writes timestamped full-track documents for long-term storage,
// one directory per vehicle.
type History struct {
	fs          afero.Fs
	dir         string
	description string
}

func NewHistory(fs afero.Fs, outputDir, description string) *History {
	if description == "" {
		description = DefaultDescription
	}
	return &History{fs: fs, dir: outputDir, description: description}
}

// Path returns <outputDir>/<id>/<at>_<id>.geojson.
func (h *History) Path(id model.VehicleID, at time.Time) string {
	name := at.UTC().Format(historyTimeLayout) + "_" + id.String() + ".geojson"
	return filepath.Join(h.dir, id.String(), name)
}

// Write stores the track obs of id as it was at time at. Features are
// labelled with the raw identity.
func (h *History) Write(id model.VehicleID, obs []model.Observation, at time.Time) error {
	data, err := EncodeTrack(id.String(), h.description, obs)
	if err != nil {
		return err
	}
	return writeAtomic(h.fs, h.Path(id, at), data)
}
