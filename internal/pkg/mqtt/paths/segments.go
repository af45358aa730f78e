package paths

// Topic segments of the navigation bus.
// Every topic has the shape {root}/{segment}/{node}.

// Upstream: vehicles -> bus.
const (
	// EstimatedState carries a vehicle's navigation solution. navtrack reads
	// src, lat, lon, x, y, depth and timestamp.
	// Payload: { "src": 30, "lat": 1.1082, "lon": 0.1815, "height": 0, "x": 0, "y": 0, "z": 0, "depth": 0.4, "timestamp": 1749724200.5 }
	// Pattern: {root}/estimated-state/{node}
	EstimatedState = "estimated-state"

	// Announce advertises a node's numeric address and system name.
	// Payload: { "src": 30, "sys_name": "lauv-thor" }
	// Pattern: {root}/announce/{node}
	Announce = "announce"
)

// Downstream: navtrack -> vehicles.
const (
	// Heartbeat tells a vehicle that a consumer is listening so it keeps
	// broadcasting its state.
	// Payload: { "src": 9711, "sys_name": "navtrack", "timestamp": 1749724200 }
	// Pattern: {root}/heartbeat/{vehicle}
	Heartbeat = "heartbeat"
)
