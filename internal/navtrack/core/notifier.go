package core

import (
	"context"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// HeartbeatNotifier tells tracked vehicles that a consumer is listening.
// In navtrack this is implemented by the MQTT outbound adapter.
type HeartbeatNotifier interface {
	Notify(ctx context.Context, vehicle model.VehicleID, hb *model.Heartbeat) error
}
