package options

import (
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*OutputOptions)(nil)

// OutputOptions configures the files navtrack writes and how often.
type OutputOptions struct {
	Dir         string `json:"dir" mapstructure:"dir" yaml:"dir" validate:"required"`
	Description string `json:"description" mapstructure:"description" yaml:"description"`

	DisplayInterval time.Duration `json:"display-interval" mapstructure:"display-interval" yaml:"display-interval" validate:"gte=1s"`
	// DisplayMaxPoints bounds the live track of each vehicle. Zero keeps the
	// whole track since start-up.
	DisplayMaxPoints int `json:"display-max-points" mapstructure:"display-max-points" yaml:"display-max-points" validate:"gte=0"`

	ArchiveInterval  time.Duration `json:"archive-interval" mapstructure:"archive-interval" yaml:"archive-interval" validate:"gte=1s"`
	RotationInterval time.Duration `json:"rotation-interval" mapstructure:"rotation-interval" yaml:"rotation-interval" validate:"gte=1s"`

	// HistoryInterval is how often full-track snapshots are stored. Zero
	// disables them.
	HistoryInterval time.Duration `json:"history-interval" mapstructure:"history-interval" yaml:"history-interval" validate:"gte=0"`

	// StopTimeout bounds the final flushes on shutdown.
	StopTimeout time.Duration `json:"stop-timeout" mapstructure:"stop-timeout" yaml:"stop-timeout" validate:"gte=1s"`
}

func NewOutputOptions() *OutputOptions {
	return &OutputOptions{
		Dir:              "./data",
		Description:      "vehicle navigation log",
		DisplayInterval:  3 * time.Minute,
		ArchiveInterval:  time.Minute,
		RotationInterval: time.Hour,
		StopTimeout:      30 * time.Second,
	}
}

func (o *OutputOptions) Validate() []error {
	if o == nil {
		return nil
	}
	return validateStruct(o)
}

func (o *OutputOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Dir, "output.dir", o.Dir, "Directory the display, archive and history files are written to.")
	fs.StringVar(&o.Description, "output.description", o.Description, "Description property of track features.")
	fs.DurationVar(&o.DisplayInterval, "output.display-interval", o.DisplayInterval, "Interval between display document refreshes.")
	fs.IntVar(&o.DisplayMaxPoints, "output.display-max-points", o.DisplayMaxPoints, "Most recent positions kept per vehicle for display, 0 keeps all.")
	fs.DurationVar(&o.ArchiveInterval, "output.archive-interval", o.ArchiveInterval, "Interval between archive flushes.")
	fs.DurationVar(&o.RotationInterval, "output.rotation-interval", o.RotationInterval, "Interval between archive file rotations.")
	fs.DurationVar(&o.HistoryInterval, "output.history-interval", o.HistoryInterval, "Interval between full-track history snapshots, 0 disables them.")
	fs.DurationVar(&o.StopTimeout, "output.stop-timeout", o.StopTimeout, "Time allowed for the final flushes on shutdown.")
}
