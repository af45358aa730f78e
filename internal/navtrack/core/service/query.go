package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// ErrNotTracked is returned for identities outside the allow-list.
var ErrNotTracked = errors.New("vehicle is not tracked")

// VehicleSummary describes the live track of one vehicle.
type VehicleSummary struct {
	ID       model.VehicleID `json:"id"`
	Name     string          `json:"name"`
	Points   int             `json:"points"`
	Pending  int             `json:"pending"`
	LastSeen *time.Time      `json:"last_seen,omitempty"`
}

// Vehicles summarises every tracked vehicle.
func (s *Service) Vehicles() []VehicleSummary {
	ids := s.Tracked()
	out := make([]VehicleSummary, 0, len(ids))
	for _, id := range ids {
		obs := s.display.Snapshot(id)
		sum := VehicleSummary{
			ID:      id,
			Name:    s.DisplayName(id),
			Points:  len(obs),
			Pending: s.archive.Len(id),
		}
		if len(obs) > 0 {
			last := obs[len(obs)-1].ReceivedAt()
			sum.LastSeen = &last
		}
		out = append(out, sum)
	}
	return out
}

// TrackDocument renders the live display document of id as it would be
// written now.
func (s *Service) TrackDocument(id model.VehicleID) ([]byte, error) {
	if !s.filter.Tracked().Contains(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotTracked, id)
	}
	return s.displayOut.Encode(s.DisplayName(id), s.display.Snapshot(id))
}
