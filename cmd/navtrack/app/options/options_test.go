package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	opts := NewNavtrackOptions()
	require.NoError(t, opts.Validate())

	cfg, err := opts.Config()
	require.NoError(t, err)
	assert.Same(t, opts.OutputOptions, cfg.OutputOptions)
	assert.Nil(t, cfg.Fs)
}

func TestValidateAggregatesErrors(t *testing.T) {
	opts := NewNavtrackOptions()
	opts.VehicleOptions.Tracked = nil
	opts.GeoOptions.Unit = "grads"
	opts.Log.Format = "xml"

	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracked")
	assert.Contains(t, err.Error(), "unit")
	assert.Contains(t, err.Error(), "xml")

	_, err = opts.Config()
	assert.Error(t, err)
}

func TestFlagsAreGrouped(t *testing.T) {
	fss := NewNavtrackOptions().Flags()
	assert.Equal(t, []string{"http", "mqtt", "s3", "vehicles", "output", "geo", "log"}, fss.Order)

	for name, prefix := range map[string]string{
		"vehicles": "vehicles.tracked",
		"output":   "output.dir",
		"geo":      "geo.unit",
		"mqtt":     "mqtt.broker",
	} {
		assert.NotNil(t, fss.FlagSet(name).Lookup(prefix), prefix)
	}
}
