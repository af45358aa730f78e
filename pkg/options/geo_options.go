package options

import (
	"github.com/spf13/pflag"

	"github.com/sfiharvest/navtrack/pkg/geo"
)

var _ IOptions = (*GeoOptions)(nil)

// GeoOptions configures the coordinate transformation.
type GeoOptions struct {
	// Unit of inbound latitudes and longitudes.
	Unit string `json:"unit" mapstructure:"unit" yaml:"unit" validate:"oneof=radians degrees rad deg"`

	// Origin of the local tangent plane, in degrees.
	OriginLatitude  float64 `json:"origin-latitude" mapstructure:"origin-latitude" yaml:"origin-latitude" validate:"gt=-90,lt=90"`
	OriginLongitude float64 `json:"origin-longitude" mapstructure:"origin-longitude" yaml:"origin-longitude" validate:"gte=-180,lte=180"`
}

func NewGeoOptions() *GeoOptions {
	return &GeoOptions{
		Unit:            string(geo.Radians),
		OriginLatitude:  63.44,
		OriginLongitude: 10.39,
	}
}

func (o *GeoOptions) Validate() []error {
	if o == nil {
		return nil
	}
	return validateStruct(o)
}

func (o *GeoOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Unit, "geo.unit", o.Unit, "Angular unit of inbound positions ('radians' or 'degrees').")
	fs.Float64Var(&o.OriginLatitude, "geo.origin-latitude", o.OriginLatitude, "Latitude of the local frame origin, in degrees.")
	fs.Float64Var(&o.OriginLongitude, "geo.origin-longitude", o.OriginLongitude, "Longitude of the local frame origin, in degrees.")
}

// Transformer builds the transformer described by the options.
func (o *GeoOptions) Transformer() (geo.Transformer, error) {
	unit, err := geo.ParseUnit(o.Unit)
	if err != nil {
		return nil, err
	}
	plane, err := geo.NewLocalTangentPlane(geo.Origin{Latitude: o.OriginLatitude, Longitude: o.OriginLongitude})
	if err != nil {
		return nil, err
	}
	return geo.NewTransformer(unit, plane)
}
