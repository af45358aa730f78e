package geo

import (
	"fmt"
	"math"
)

// Unit is the angular unit inbound positions are expressed in.
type Unit string

const (
	Radians Unit = "radians"
	Degrees Unit = "degrees"
)

// ParseUnit accepts "radians"/"rad" and "degrees"/"deg".
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "radians", "rad":
		return Radians, nil
	case "degrees", "deg":
		return Degrees, nil
	}
	return "", fmt.Errorf("unknown angular unit %q", s)
}

// Position is a transformed position: geodetic degrees plus the local
// planar coordinates derived from them.
type Position struct {
	Latitude  float64
	Longitude float64
	X         float64
	Y         float64
}

// Projector maps geodetic degrees to a local planar frame.
type Projector interface {
	Project(latDeg, lonDeg float64) (x, y float64)
}

// Transformer converts inbound geodetic positions into Positions.
type Transformer interface {
	// Transform converts (lat, lon) given in the transformer's unit.
	Transform(lat, lon float64) (Position, error)

	// TransformOffset applies a north/east displacement in metres to
	// (lat, lon) before converting it.
	TransformOffset(lat, lon, north, east float64) (Position, error)
}

type transformer struct {
	unit Unit
	proj Projector
}

// NewTransformer returns a Transformer reading positions in unit and
// projecting them with proj.
func NewTransformer(unit Unit, proj Projector) (Transformer, error) {
	if unit != Radians && unit != Degrees {
		return nil, fmt.Errorf("unknown angular unit %q", unit)
	}
	if proj == nil {
		return nil, fmt.Errorf("projector is required")
	}
	return &transformer{unit: unit, proj: proj}, nil
}

func (t *transformer) Transform(lat, lon float64) (Position, error) {
	return t.TransformOffset(lat, lon, 0, 0)
}

func (t *transformer) TransformOffset(lat, lon, north, east float64) (Position, error) {
	if t.unit == Radians {
		lat, lon = ToDegrees(lat), ToDegrees(lon)
	}
	if err := checkDegrees(lat, lon); err != nil {
		return Position{}, err
	}
	if math.IsNaN(north) || math.IsInf(north, 0) || math.IsNaN(east) || math.IsInf(east, 0) {
		return Position{}, fmt.Errorf("%w: non-finite offset (%v, %v)", ErrInvalidCoordinate, north, east)
	}

	lat, lon = Displace(lat, lon, north, east)
	if err := checkDegrees(lat, lon); err != nil {
		return Position{}, err
	}

	x, y := t.proj.Project(lat, lon)
	return Position{Latitude: lat, Longitude: lon, X: x, Y: y}, nil
}
