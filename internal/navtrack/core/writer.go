package core

import (
	"time"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// DisplayWriter keeps the live map document of each vehicle.
// In navtrack this is implemented by the GeoJSON file adapter.
type DisplayWriter interface {
	// Write replaces the document of id with the track obs, labelled name.
	Write(id model.VehicleID, name string, obs []model.Observation) error
	// Encode renders the document Write would store.
	Encode(name string, obs []model.Observation) ([]byte, error)
}

// HistoryWriter stores timestamped copies of full tracks.
type HistoryWriter interface {
	Write(id model.VehicleID, obs []model.Observation, at time.Time) error
}
