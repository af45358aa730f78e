package geo

import (
	"errors"
	"fmt"
	"math"
)

// WGS84 ellipsoid parameters.
const (
	SemiMajorAxis = 6378137.0
	Flattening    = 1 / 298.257223563
)

var eccentricitySq = Flattening * (2 - Flattening)

// ErrInvalidCoordinate is returned for non-finite or out-of-range positions.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Origin is the geodetic reference point of a local frame, in degrees.
type Origin struct {
	Latitude  float64 `json:"latitude" mapstructure:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude" yaml:"longitude"`
}

// Validate reports whether the origin is a usable reference point.
// Poles are rejected because east-west distances collapse there.
func (o Origin) Validate() error {
	if err := checkDegrees(o.Latitude, o.Longitude); err != nil {
		return err
	}
	if math.Abs(o.Latitude) >= 90 {
		return fmt.Errorf("%w: origin latitude %v is at a pole", ErrInvalidCoordinate, o.Latitude)
	}
	return nil
}

// RadiiOfCurvature returns the meridional (M) and prime-vertical (N) radii
// of the WGS84 ellipsoid at latDeg.
func RadiiOfCurvature(latDeg float64) (m, n float64) {
	s := math.Sin(ToRadians(latDeg))
	w := 1 - eccentricitySq*s*s
	n = SemiMajorAxis / math.Sqrt(w)
	m = SemiMajorAxis * (1 - eccentricitySq) / (w * math.Sqrt(w))
	return m, n
}

// LocalTangentPlane projects positions onto the plane tangent to the WGS84
// ellipsoid at Origin.
type LocalTangentPlane struct {
	origin Origin

	// metres per radian of latitude and longitude at the origin.
	northScale float64
	eastScale  float64
}

var _ Projector = (*LocalTangentPlane)(nil)

// NewLocalTangentPlane builds a projector anchored at origin.
func NewLocalTangentPlane(origin Origin) (*LocalTangentPlane, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	m, n := RadiiOfCurvature(origin.Latitude)
	return &LocalTangentPlane{
		origin:     origin,
		northScale: m,
		eastScale:  n * math.Cos(ToRadians(origin.Latitude)),
	}, nil
}

// Origin returns the reference point.
func (p *LocalTangentPlane) Origin() Origin {
	return p.origin
}

// Project returns the north (x) and east (y) offsets in metres of the
// position (latDeg, lonDeg) from the origin.
func (p *LocalTangentPlane) Project(latDeg, lonDeg float64) (x, y float64) {
	dLat := ToRadians(latDeg - p.origin.Latitude)
	dLon := ToRadians(wrapLongitude(lonDeg - p.origin.Longitude))
	return dLat * p.northScale, dLon * p.eastScale
}

// Unproject is the inverse of Project.
func (p *LocalTangentPlane) Unproject(x, y float64) (latDeg, lonDeg float64) {
	latDeg = p.origin.Latitude + ToDegrees(x/p.northScale)
	lonDeg = wrapLongitude(p.origin.Longitude + ToDegrees(y/p.eastScale))
	return latDeg, lonDeg
}

// Displace moves (latDeg, lonDeg) by north and east metres using the local
// radii of curvature at latDeg. Vehicles report their position as a
// reference point plus such an offset.
func Displace(latDeg, lonDeg, north, east float64) (float64, float64) {
	if north == 0 && east == 0 {
		return latDeg, lonDeg
	}
	m, n := RadiiOfCurvature(latDeg)
	lat := latDeg + ToDegrees(north/m)
	lon := lonDeg + ToDegrees(east/(n*math.Cos(ToRadians(latDeg))))
	return lat, wrapLongitude(lon)
}

// ToDegrees converts radians to degrees.
func ToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// wrapLongitude maps lon into [-180, 180).
func wrapLongitude(lon float64) float64 {
	if lon >= -180 && lon < 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func checkDegrees(latDeg, lonDeg float64) error {
	if math.IsNaN(latDeg) || math.IsInf(latDeg, 0) || math.IsNaN(lonDeg) || math.IsInf(lonDeg, 0) {
		return fmt.Errorf("%w: non-finite position (%v, %v)", ErrInvalidCoordinate, latDeg, lonDeg)
	}
	if math.Abs(latDeg) > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, latDeg)
	}
	if math.Abs(lonDeg) > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, lonDeg)
	}
	return nil
}
