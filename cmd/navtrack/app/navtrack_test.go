package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/navtrack/writer"
)

const testConfig = `
vehicles:
  tracked: [lauv-thor, lauv-roald]
  aliases:
    lauv-thor: Hammer
output:
  dir: /srv/navtrack
  display-interval: 10s
mqtt:
  broker: tcp://broker:1883
  password: hunter2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewNavtrackCommand(context.Background())
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestConfigFileIsLoaded(t *testing.T) {
	out := execute(t, "config", "--config", writeConfig(t, testConfig))

	assert.Contains(t, out, "dir: /srv/navtrack")
	assert.Contains(t, out, "display-interval: 10s")
	assert.Contains(t, out, "lauv-thor: Hammer")
	assert.NotContains(t, out, "lauv-roald: Roald")
	assert.Contains(t, out, "broker: tcp://broker:1883")
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "hunter2")
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	t.Setenv("NAVTRACK_GEO_UNIT", "degrees")
	out := execute(t, "config", "--config", writeConfig(t, testConfig), "--output.dir=/flag")

	assert.Contains(t, out, "dir: /flag")
	assert.Contains(t, out, "unit: degrees")
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	out := execute(t, "config")

	assert.Contains(t, out, "dir: ./data")
	assert.Contains(t, out, "unit: radians")
	assert.Contains(t, out, "lauv-roald: Roald")
}

func TestMixedCaseAliasFromConfigFile(t *testing.T) {
	path := writeConfig(t, `
vehicles:
  tracked: [LAUV-Xplore-1]
  aliases:
    LAUV-Xplore-1: Xplore
`)
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	aliases := model.NewAliases(v.GetStringMapString(aliasesKey))
	assert.Equal(t, "Xplore", aliases.DisplayName(model.VehicleID("LAUV-Xplore-1")))
}

func TestStatusTable(t *testing.T) {
	table := statusTable([]writer.TrackSummary{
		{ID: model.VehicleID("lauv-roald"), Name: "Roald"},
		{ID: model.VehicleID("lauv-thor"), Name: "Thor", Points: 2, Last: []float64{10.39, 63.44, 1.5}},
	}).String()

	assert.Contains(t, table, "VEHICLE")
	assert.Contains(t, table, "63.440000")
	assert.Contains(t, table, "Roald")
}

type aliasRecorder struct {
	mu  sync.Mutex
	got map[string]string
}

func (r *aliasRecorder) SetAliases(a map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = a
}

func (r *aliasRecorder) alias(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.got[id]
}

func TestWatchAliasesReloadsOnChange(t *testing.T) {
	path := writeConfig(t, testConfig)
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	rec := &aliasRecorder{}
	watchAliases(v, rec)

	updated := `
vehicles:
  aliases:
    lauv-thor: Mjolnir
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	require.Eventually(t, func() bool { return rec.alias("lauv-thor") == "Mjolnir" }, 5*time.Second, 20*time.Millisecond)
}

func TestWatchAliasesWithoutFile(t *testing.T) {
	rec := &aliasRecorder{}
	watchAliases(viper.New(), rec)
	assert.Nil(t, rec.got)
}
