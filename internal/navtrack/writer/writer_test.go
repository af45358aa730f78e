package writer

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/pkg/geo"
)

func newObservation(t *testing.T, lat, lon, depth, ts float64) model.Observation {
	t.Helper()
	plane, err := geo.NewLocalTangentPlane(geo.Origin{Latitude: 63.44, Longitude: 10.39})
	require.NoError(t, err)
	tf, err := geo.NewTransformer(geo.Degrees, plane)
	require.NoError(t, err)
	obs, err := model.NewObservation(tf, model.Fix{Latitude: lat, Longitude: lon, Depth: depth, Timestamp: ts}, time.Now())
	require.NoError(t, err)
	return obs
}

// failingFs rejects every file opened below a path containing deny.
type failingFs struct {
	afero.Fs
	deny string
}

var errDenied = errors.New("denied")

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.Contains(name, f.deny) {
		return nil, errDenied
	}
	return f.Fs.OpenFile(name, flag, perm)
}

// closeFailFs hands out files whose Close reports an error after closing
// the underlying file, while failClose is set.
type closeFailFs struct {
	afero.Fs
	failClose *bool
}

var errClose = errors.New("close failed")

func (f closeFailFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return closeFailFile{File: file, fail: f.failClose}, nil
}

type closeFailFile struct {
	afero.File
	fail *bool
}

func (f closeFailFile) Close() error {
	if err := f.File.Close(); err != nil {
		return err
	}
	if *f.fail {
		return errClose
	}
	return nil
}

type document struct {
	Type     string `json:"type"`
	Features []struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]string `json:"properties"`
	} `json:"features"`
}

func readDocument(t *testing.T, fs afero.Fs, path string) document {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestDisplayWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := NewDisplay(fs, "/data", "")

	obs := []model.Observation{
		newObservation(t, 63.44, 10.39, 1.5, 1),
		newObservation(t, 63.45, 10.40, 2.0, 2),
	}
	require.NoError(t, d.Write("lauv-thor", "Thor", obs))

	assert.Equal(t, "/data/display/lauv-thor.geojson", d.Path("lauv-thor"))
	doc := readDocument(t, fs, d.Path("lauv-thor"))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 1)

	f := doc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "LineString", f.Geometry.Type)
	assert.Equal(t, [][]float64{{10.39, 63.44, 1.5}, {10.40, 63.45, 2.0}}, f.Geometry.Coordinates)
	assert.Equal(t, "Thor", f.Properties["name"])
	assert.Equal(t, DefaultDescription, f.Properties["description"])
}

func TestDisplayIndentsWithFourSpaces(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := NewDisplay(fs, "/data", "survey")
	require.NoError(t, d.Write("lauv-thor", "Thor", []model.Observation{newObservation(t, 63.44, 10.39, 0, 1)}))

	data, err := afero.ReadFile(fs, d.Path("lauv-thor"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"features\": [")
}

func TestDisplayEmptyTrack(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := NewDisplay(fs, "/data", "")
	require.NoError(t, d.Write("lauv-thor", "Thor", nil))

	doc := readDocument(t, fs, d.Path("lauv-thor"))
	assert.Equal(t, "FeatureCollection", doc.Type)
	assert.Empty(t, doc.Features)

	data, err := afero.ReadFile(fs, d.Path("lauv-thor"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"features": []`)
}

func TestDisplayReplacesAtomically(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := NewDisplay(fs, "/data", "")
	obs := []model.Observation{newObservation(t, 63.44, 10.39, 0, 1)}

	require.NoError(t, d.Write("lauv-thor", "Thor", obs))
	obs = append(obs, newObservation(t, 63.45, 10.39, 0, 2))
	require.NoError(t, d.Write("lauv-thor", "Thor", obs))

	doc := readDocument(t, fs, d.Path("lauv-thor"))
	require.Len(t, doc.Features, 1)
	assert.Len(t, doc.Features[0].Geometry.Coordinates, 2)

	entries, err := afero.ReadDir(fs, "/data/display")
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files are left behind")
	assert.Equal(t, "lauv-thor.geojson", entries[0].Name())
}

func TestDisplayFailureKeepsPreviousDocument(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, NewDisplay(base, "/data", "").Write("lauv-thor", "Thor",
		[]model.Observation{newObservation(t, 63.44, 10.39, 0, 1)}))

	d := NewDisplay(failingFs{Fs: base, deny: "lauv-thor"}, "/data", "")
	err := d.Write("lauv-thor", "Thor", nil)
	assert.ErrorIs(t, err, errDenied)

	doc := readDocument(t, base, d.Path("lauv-thor"))
	assert.Len(t, doc.Features, 1)
}

func TestHistoryWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := NewHistory(fs, "/data", "")
	at := time.Date(2025, 6, 12, 10, 30, 0, 0, time.UTC)

	require.NoError(t, h.Write("lauv-thor", []model.Observation{newObservation(t, 63.44, 10.39, 0, 1)}, at))

	path := "/data/lauv-thor/20250612103000_lauv-thor.geojson"
	assert.Equal(t, path, h.Path("lauv-thor", at))
	doc := readDocument(t, fs, path)
	require.Len(t, doc.Features, 1)
	assert.Equal(t, "lauv-thor", doc.Features[0].Properties["name"])
}

func TestArchiveAppend(t *testing.T) {
	fs := afero.NewMemMapFs()
	a := NewArchive(fs)
	path := "/data/20250612T100000+0000_vehicles.csv"

	ts := float64(time.Date(2025, 6, 12, 10, 30, 0, 0, time.UTC).Unix())
	require.NoError(t, a.Append(path, "lauv-thor", []model.Observation{newObservation(t, 63.44, 10.39, 0, ts)}))
	require.NoError(t, a.Append(path, "lauv-roald", []model.Observation{newObservation(t, 63.5, 10.4, 0, ts+1)}))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t,
		"vehicle_id,lat,long,datetime\n"+
			"lauv-thor,63.44,10.39,20250612103000UTC\n"+
			"lauv-roald,63.5,10.4,20250612103001UTC\n",
		string(data))
}

func TestArchiveContinuesExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/data/20250612T100000+0000_vehicles.csv"
	require.NoError(t, afero.WriteFile(fs, path, []byte("vehicle_id,lat,long,datetime\nlauv-thor,1,2,20250612100000UTC\n"), 0o644))

	a := NewArchive(fs)
	require.NoError(t, a.Append(path, "lauv-thor", []model.Observation{newObservation(t, 63.44, 10.39, 0, 0)}))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "vehicle_id"), "header is written once")
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestArchiveHeaderOnEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/data/empty_vehicles.csv"
	require.NoError(t, afero.WriteFile(fs, path, nil, 0o644))

	require.NoError(t, NewArchive(fs).Append(path, "lauv-thor", []model.Observation{newObservation(t, 63.44, 10.39, 0, 0)}))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "vehicle_id,lat,long,datetime\n"))
}

func TestArchiveNothingToWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, NewArchive(fs).Append("/data/x_vehicles.csv", "lauv-thor", nil))

	exists, err := afero.Exists(fs, "/data/x_vehicles.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestArchiveReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := NewArchive(fs).Append("/data/x_vehicles.csv", "lauv-thor", []model.Observation{newObservation(t, 63.44, 10.39, 0, 0)})
	assert.Error(t, err)
}

func TestArchiveFailedCloseLeavesFileUnchanged(t *testing.T) {
	base := afero.NewMemMapFs()
	path := "/data/20250612T100000+0000_vehicles.csv"
	before := "vehicle_id,lat,long,datetime\nlauv-roald,1,2,20250612100000UTC\n"
	require.NoError(t, afero.WriteFile(base, path, []byte(before), 0o644))

	failClose := true
	a := NewArchive(closeFailFs{Fs: base, failClose: &failClose})
	obs := []model.Observation{newObservation(t, 63.44, 10.39, 0, 0)}

	err := a.Append(path, "lauv-thor", obs)
	require.ErrorIs(t, err, errClose)
	data, err := afero.ReadFile(base, path)
	require.NoError(t, err)
	assert.Equal(t, before, string(data))

	// a retry after the fault clears writes the row exactly once
	failClose = false
	require.NoError(t, a.Append(path, "lauv-thor", obs))
	data, err = afero.ReadFile(base, path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "lauv-thor"))
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestArchiveFailedCloseRemovesNewFile(t *testing.T) {
	base := afero.NewMemMapFs()
	path := "/data/20250612T100000+0000_vehicles.csv"

	failClose := true
	a := NewArchive(closeFailFs{Fs: base, failClose: &failClose})
	err := a.Append(path, "lauv-thor", []model.Observation{newObservation(t, 63.44, 10.39, 0, 0)})
	require.ErrorIs(t, err, errClose)

	exists, err := afero.Exists(base, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHeaderIsCopied(t *testing.T) {
	h := Header()
	h[0] = "changed"
	assert.Equal(t, "vehicle_id", Header()[0])
}
