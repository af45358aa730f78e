package options

import (
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*VehicleOptions)(nil)

// VehicleOptions selects the vehicles to track and how they are named.
type VehicleOptions struct {
	// Tracked is the allow-list of vehicle system names.
	Tracked []string `json:"tracked" mapstructure:"tracked" yaml:"tracked" validate:"min=1,dive,required"`

	// Aliases maps system names to the names shown on the map. It is
	// reloaded when the config file changes.
	Aliases map[string]string `json:"aliases" mapstructure:"aliases" yaml:"aliases,omitempty" validate:"dive,keys,required,endkeys,required"`

	// NodeID and NodeName identify navtrack in heartbeats.
	NodeID   uint16 `json:"node-id" mapstructure:"node-id" yaml:"node-id"`
	NodeName string `json:"node-name" mapstructure:"node-name" yaml:"node-name" validate:"required"`

	// HeartbeatInterval is how often heartbeats are sent. Zero disables them.
	HeartbeatInterval time.Duration `json:"heartbeat-interval" mapstructure:"heartbeat-interval" yaml:"heartbeat-interval" validate:"gte=0"`
}

func NewVehicleOptions() *VehicleOptions {
	return &VehicleOptions{
		Tracked: []string{
			"ntnu-mr-usv",
			"lauv-thor",
			"ntnu-autonaut",
			"ntnu-autonaut2",
			"manta-ntnu-1",
			"lauv-simulator-1",
			"lauv-roald",
		},
		Aliases: map[string]string{
			"lauv-thor":    "Thor",
			"lauv-roald":   "Roald",
			"ntnu-mr-usv":  "Grethe",
			"manta-ntnu-1": "Flyer",
		},
		NodeID:            9711,
		NodeName:          "navtrack",
		HeartbeatInterval: 5 * time.Second,
	}
}

func (o *VehicleOptions) Validate() []error {
	if o == nil {
		return nil
	}
	return validateStruct(o)
}

func (o *VehicleOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringSliceVar(&o.Tracked, "vehicles.tracked", o.Tracked, "System names of the vehicles to track.")
	fs.StringToStringVar(&o.Aliases, "vehicles.aliases", o.Aliases, "Display names of vehicles, e.g. lauv-thor=Thor.")
	fs.Uint16Var(&o.NodeID, "vehicles.node-id", o.NodeID, "Bus address navtrack identifies itself with.")
	fs.StringVar(&o.NodeName, "vehicles.node-name", o.NodeName, "System name navtrack identifies itself with.")
	fs.DurationVar(&o.HeartbeatInterval, "vehicles.heartbeat-interval", o.HeartbeatInterval, "Interval between heartbeats to tracked vehicles, 0 disables them.")
}
