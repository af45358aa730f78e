package core

import (
	"errors"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// ErrUnknownNode is returned when a bus address has not been announced yet.
var ErrUnknownNode = errors.New("unknown node")

// Resolver maps the numeric bus address of a message's originating node to
// the vehicle's identity.
type Resolver interface {
	Resolve(src uint16) (model.VehicleID, error)
}
