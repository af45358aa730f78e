package model

import (
	"math"
	"time"

	"github.com/sfiharvest/navtrack/pkg/geo"
)

// Fix is the raw navigation solution carried by one EstimatedState report,
// with the position still in the bus's angular unit.
type Fix struct {
	Latitude  float64
	Longitude float64
	// North and East displace the reference position, in metres.
	North float64
	East  float64
	Depth float64
	// Timestamp is the vehicle's clock in seconds since the epoch.
	Timestamp float64
}

// Observation is one accepted position of a vehicle. It is immutable: the
// local planar coordinates are derived from latitude and longitude at
// construction and cannot be set independently.
type Observation struct {
	latitude   float64
	longitude  float64
	depth      float64
	localX     float64
	localY     float64
	timestamp  int64
	receivedAt time.Time
}

// NewObservation transforms fix with tf and stamps it with receivedAt.
// The vehicle timestamp is rounded to whole seconds.
func NewObservation(tf geo.Transformer, fix Fix, receivedAt time.Time) (Observation, error) {
	pos, err := tf.TransformOffset(fix.Latitude, fix.Longitude, fix.North, fix.East)
	if err != nil {
		return Observation{}, err
	}
	return Observation{
		latitude:   pos.Latitude,
		longitude:  pos.Longitude,
		depth:      fix.Depth,
		localX:     pos.X,
		localY:     pos.Y,
		timestamp:  int64(math.Round(fix.Timestamp)),
		receivedAt: receivedAt,
	}, nil
}

// Latitude in degrees.
func (o Observation) Latitude() float64 { return o.latitude }

// Longitude in degrees.
func (o Observation) Longitude() float64 { return o.longitude }

// Depth in metres below the surface.
func (o Observation) Depth() float64 { return o.depth }

// LocalX is the northing from the configured origin, in metres.
func (o Observation) LocalX() float64 { return o.localX }

// LocalY is the easting from the configured origin, in metres.
func (o Observation) LocalY() float64 { return o.localY }

// Timestamp is the vehicle-reported time in whole seconds since the epoch.
func (o Observation) Timestamp() int64 { return o.timestamp }

// Time returns Timestamp as a UTC time.
func (o Observation) Time() time.Time { return time.Unix(o.timestamp, 0).UTC() }

// ReceivedAt is the wall-clock time the report reached this process.
func (o Observation) ReceivedAt() time.Time { return o.receivedAt }

// Coordinate returns the GeoJSON position [longitude, latitude, depth].
func (o Observation) Coordinate() []float64 {
	return []float64{o.longitude, o.latitude, o.depth}
}
