package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/sfiharvest/navtrack/internal/navtrack"
	"github.com/sfiharvest/navtrack/pkg/log"
	"github.com/sfiharvest/navtrack/pkg/options"
)

// NavtrackOptions is the full configuration of the navtrack command. Its
// mapstructure keys match the flag prefixes so a config file and the
// command line address the same fields.
type NavtrackOptions struct {
	HttpOptions    *options.HttpOptions    `json:"http" mapstructure:"http" yaml:"http"`
	MqttOptions    *options.MqttOptions    `json:"mqtt" mapstructure:"mqtt" yaml:"mqtt"`
	S3Options      *options.S3Options      `json:"s3" mapstructure:"s3" yaml:"s3"`
	VehicleOptions *options.VehicleOptions `json:"vehicles" mapstructure:"vehicles" yaml:"vehicles"`
	OutputOptions  *options.OutputOptions  `json:"output" mapstructure:"output" yaml:"output"`
	GeoOptions     *options.GeoOptions     `json:"geo" mapstructure:"geo" yaml:"geo"`
	Log            *log.Options            `json:"log" mapstructure:"log" yaml:"log"`
}

func NewNavtrackOptions() *NavtrackOptions {
	return &NavtrackOptions{
		HttpOptions:    options.NewHttpOptions(),
		MqttOptions:    options.NewMqttOptions(),
		S3Options:      options.NewS3Options(),
		VehicleOptions: options.NewVehicleOptions(),
		OutputOptions:  options.NewOutputOptions(),
		GeoOptions:     options.NewGeoOptions(),
		Log:            log.NewOptions(),
	}
}

func (o *NavtrackOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.VehicleOptions.AddFlags(fss.FlagSet("vehicles"))
	o.OutputOptions.AddFlags(fss.FlagSet("output"))
	o.GeoOptions.AddFlags(fss.FlagSet("geo"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *NavtrackOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.VehicleOptions.Validate()...)
	errs = append(errs, o.OutputOptions.Validate()...)
	errs = append(errs, o.GeoOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *NavtrackOptions) Config() (*navtrack.Config, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &navtrack.Config{
		HttpOptions:    o.HttpOptions,
		MqttOptions:    o.MqttOptions,
		S3Options:      o.S3Options,
		VehicleOptions: o.VehicleOptions,
		OutputOptions:  o.OutputOptions,
		GeoOptions:     o.GeoOptions,
	}, nil
}
