package writer

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// DisplayDir is the sub-directory of the output directory holding the live
// map documents.
const DisplayDir = "display"

// Display keeps one rolling GeoJSON document per vehicle for map display.
type Display struct {
	fs          afero.Fs
	dir         string
	description string
}

// NewDisplay writes documents below <outputDir>/display.
func NewDisplay(fs afero.Fs, outputDir, description string) *Display {
	if description == "" {
		description = DefaultDescription
	}
	return &Display{
		fs:          fs,
		dir:         filepath.Join(outputDir, DisplayDir),
		description: description,
	}
}

// Path returns the document path of id.
func (d *Display) Path(id model.VehicleID) string {
	return filepath.Join(d.dir, id.String()+".geojson")
}

// Encode renders the document Write would produce.
func (d *Display) Encode(name string, obs []model.Observation) ([]byte, error) {
	return EncodeTrack(name, d.description, obs)
}

// Write replaces the document of id with the track obs, labelled name.
func (d *Display) Write(id model.VehicleID, name string, obs []model.Observation) error {
	data, err := d.Encode(name, obs)
	if err != nil {
		return err
	}
	return writeAtomic(d.fs, d.Path(id), data)
}
