package options

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	for name, o := range map[string]IOptions{
		"http":     NewHttpOptions(),
		"mqtt":     NewMqttOptions(),
		"s3":       NewS3Options(),
		"vehicles": NewVehicleOptions(),
		"output":   NewOutputOptions(),
		"geo":      NewGeoOptions(),
	} {
		assert.Empty(t, o.Validate(), name)
	}
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress("0.0.0.0:8080"))
	assert.NoError(t, ValidateAddress(":8080"))
	assert.Error(t, ValidateAddress("localhost"))
	assert.Error(t, ValidateAddress("localhost:http-alt"))
	assert.Error(t, ValidateAddress("localhost:70000"))
}

func TestOutputOptionsValidate(t *testing.T) {
	o := NewOutputOptions()
	o.Dir = ""
	o.DisplayInterval = 0
	o.DisplayMaxPoints = -1

	errs := o.Validate()
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "dir")
	assert.Contains(t, errs[1].Error(), "display-interval")
	assert.Contains(t, errs[2].Error(), "display-max-points")
}

func TestVehicleOptionsValidate(t *testing.T) {
	o := NewVehicleOptions()
	o.Tracked = nil
	assert.Len(t, o.Validate(), 1)

	o = NewVehicleOptions()
	o.Aliases = map[string]string{"lauv-thor": ""}
	assert.Len(t, o.Validate(), 1)
}

func TestGeoOptions(t *testing.T) {
	o := NewGeoOptions()
	tf, err := o.Transformer()
	require.NoError(t, err)
	pos, err := tf.Transform(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pos.Latitude)

	o.Unit = "grad"
	o.OriginLatitude = 90
	assert.Len(t, o.Validate(), 2)
}

func TestS3OptionsValidatedOnlyWhenEnabled(t *testing.T) {
	o := NewS3Options()
	o.BucketName = ""
	assert.Empty(t, o.Validate())

	o.Enabled = true
	assert.Len(t, o.Validate(), 1)
}

func TestMqttOptions(t *testing.T) {
	o := NewMqttOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--mqtt.broker=mqtts://broker.example:8883",
		"--mqtt.client-id=navtrack-1",
		"--mqtt.keep-alive=30s",
	}))

	cfg := o.ToClientConfig("heartbeat")
	assert.Equal(t, "mqtts://broker.example:8883", cfg.BrokerURL)
	assert.Equal(t, "navtrack-1-heartbeat", cfg.ClientID)
	assert.Equal(t, uint16(30), cfg.KeepAlive)
	assert.Equal(t, 3*time.Second, cfg.ReconnectBackoff)

	o.QoS = 3
	o.KeepAlive = 0
	assert.Len(t, o.Validate(), 2)
}
