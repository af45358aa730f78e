package notifier

import (
	"context"
	"encoding/json"

	"github.com/sfiharvest/navtrack/internal/navtrack/core"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/pkg/mqtt/paths"
	pkgmqtt "github.com/sfiharvest/navtrack/pkg/mqtt"
	"github.com/sfiharvest/navtrack/pkg/mqtt/topic"
)

var _ core.HeartbeatNotifier = (*MQTTNotifier)(nil)

// MQTTNotifier publishes heartbeats on {root}/heartbeat/{vehicle}.
type MQTTNotifier struct {
	client pkgmqtt.Client
	topics *topic.Builder
	qos    int
}

// NewMQTTNotifier publishes through client, which is started and stopped
// by its owner.
func NewMQTTNotifier(client pkgmqtt.Client, topics *topic.Builder, qos int) *MQTTNotifier {
	return &MQTTNotifier{client: client, topics: topics, qos: qos}
}

func (n *MQTTNotifier) Notify(ctx context.Context, vehicle model.VehicleID, hb *model.Heartbeat) error {
	payload, err := json.Marshal(hb)
	if err != nil {
		return err
	}

	return n.client.Publish(ctx, n.topics.Build(paths.Heartbeat, vehicle.String()), n.qos, false, payload)
}
