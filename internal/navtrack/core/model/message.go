package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EstimatedState is the fixed-shape navigation report a vehicle broadcasts.
// Lat and Lon are in the bus's configured angular unit; X and Y are the north
// and east offsets in metres from that reference position. Vehicles also
// send height and z, which are not decoded since tracks carry depth only.
type EstimatedState struct {
	Src       uint16   `json:"src"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Depth     float64  `json:"depth"`
	Timestamp float64  `json:"timestamp"`
}

// ErrIncompleteMessage marks a report missing a required field.
var ErrIncompleteMessage = errors.New("incomplete message")

// DecodeEstimatedState parses and checks a JSON report.
func DecodeEstimatedState(payload []byte) (*EstimatedState, error) {
	var msg EstimatedState
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode estimated state: %w", err)
	}
	if msg.Lat == nil || msg.Lon == nil {
		return nil, fmt.Errorf("%w: estimated state without lat/lon", ErrIncompleteMessage)
	}
	return &msg, nil
}

// Fix extracts the navigation solution.
func (m *EstimatedState) Fix() Fix {
	return Fix{
		Latitude:  *m.Lat,
		Longitude: *m.Lon,
		North:     m.X,
		East:      m.Y,
		Depth:     m.Depth,
		Timestamp: m.Timestamp,
	}
}

// Announce advertises the system name behind a numeric bus address.
type Announce struct {
	Src     uint16 `json:"src"`
	SysName string `json:"sys_name"`
}

// DecodeAnnounce parses and checks a JSON announce.
func DecodeAnnounce(payload []byte) (*Announce, error) {
	var msg Announce
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode announce: %w", err)
	}
	if msg.SysName == "" {
		return nil, fmt.Errorf("%w: announce without sys_name", ErrIncompleteMessage)
	}
	return &msg, nil
}

// Heartbeat is published to tracked vehicles to keep their state flowing.
type Heartbeat struct {
	Src       uint16 `json:"src"`
	SysName   string `json:"sys_name"`
	Timestamp int64  `json:"timestamp"`
}
