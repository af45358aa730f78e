package rotation

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/track"
	"github.com/sfiharvest/navtrack/internal/navtrack/writer"
	"github.com/sfiharvest/navtrack/pkg/geo"
)

var start = time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC)

func observation(t *testing.T, ts int64) model.Observation {
	t.Helper()
	plane, err := geo.NewLocalTangentPlane(geo.Origin{Latitude: 63.44, Longitude: 10.39})
	require.NoError(t, err)
	tf, err := geo.NewTransformer(geo.Degrees, plane)
	require.NoError(t, err)
	obs, err := model.NewObservation(tf, model.Fix{Latitude: 63.44, Longitude: 10.39, Timestamp: float64(ts)}, time.Now())
	require.NoError(t, err)
	return obs
}

type fakeStorage struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (s *fakeStorage) Upload(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	return s.err
}

type denyFs struct {
	afero.Fs
	deny string
}

func (f *denyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.deny != "" && strings.Contains(name, f.deny) {
		return nil, os.ErrPermission
	}
	return f.Fs.OpenFile(name, flag, perm)
}

// closeFailFs makes every file Close report an error while fail is set.
// The underlying file is closed first, so written bytes stay in place.
type closeFailFs struct {
	afero.Fs
	fail bool
}

func (f *closeFailFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &closeFailFile{File: file, fs: f}, nil
}

type closeFailFile struct {
	afero.File
	fs *closeFailFs
}

func (f *closeFailFile) Close() error {
	if err := f.File.Close(); err != nil {
		return err
	}
	if f.fs.fail {
		return errors.New("close failed")
	}
	return nil
}

type fixture struct {
	fs      afero.Fs
	clock   *testingclock.FakeClock
	buffer  *track.Buffer
	storage *fakeStorage
	rotator *Rotator
}

func newFixture(t *testing.T, fs afero.Fs) *fixture {
	t.Helper()
	f := &fixture{
		fs:      fs,
		clock:   testingclock.NewFakeClock(start),
		buffer:  track.NewBuffer("archive", track.Drain),
		storage: &fakeStorage{},
	}
	r, err := New(Config{
		Dir:     "/data",
		Buffer:  f.buffer,
		Archive: writer.NewArchive(fs),
		Fs:      fs,
		Clock:   f.clock,
		Storage: f.storage,
	})
	require.NoError(t, err)
	f.rotator = r
	return f
}

func rows(t *testing.T, fs afero.Fs, path string) []string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	return lines[1:]
}

func TestNewFlushTarget(t *testing.T) {
	local := time.Date(2025, 6, 12, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	target := NewFlushTarget("/data", local)
	assert.Equal(t, "/data/20250612T100000+0000_vehicles.csv", target.Path)
	assert.Equal(t, time.UTC, target.PeriodStart.Location())
}

func TestNewRequiresDrainBuffer(t *testing.T) {
	_, err := New(Config{Buffer: track.NewBuffer("display", track.Retain), Archive: writer.NewArchive(afero.NewMemMapFs())})
	assert.Error(t, err)

	_, err = New(Config{})
	assert.Error(t, err)
}

func TestFlushWritesCurrentTarget(t *testing.T) {
	f := newFixture(t, afero.NewMemMapFs())
	f.buffer.Append("lauv-thor", observation(t, start.Unix()))

	require.NoError(t, f.rotator.Flush(context.Background()))
	assert.Equal(t, []string{"lauv-thor,63.44,10.39,20250612100000UTC"}, rows(t, f.fs, f.rotator.Target().Path))
	assert.Equal(t, 0, f.buffer.Len("lauv-thor"))

	require.NoError(t, f.rotator.Flush(context.Background()), "an empty flush writes nothing")
	assert.Len(t, rows(t, f.fs, f.rotator.Target().Path), 1)
}

func TestRotationBoundary(t *testing.T) {
	f := newFixture(t, afero.NewMemMapFs())
	before := f.rotator.Target()

	f.buffer.Append("lauv-thor", observation(t, 1))
	f.clock.Step(time.Hour)
	require.NoError(t, f.rotator.Rotate(context.Background()))
	f.buffer.Append("lauv-thor", observation(t, 2))
	require.NoError(t, f.rotator.Flush(context.Background()))

	after := f.rotator.Target()
	assert.Equal(t, "/data/20250612T110000+0000_vehicles.csv", after.Path)
	assert.Equal(t, StateActive, f.rotator.State())

	assert.Equal(t, []string{"lauv-thor,63.44,10.39,19700101000001UTC"}, rows(t, f.fs, before.Path))
	assert.Equal(t, []string{"lauv-thor,63.44,10.39,19700101000002UTC"}, rows(t, f.fs, after.Path))
	assert.Equal(t, []string{before.Path}, f.storage.paths)
}

func TestRotationWithoutDataSkipsUpload(t *testing.T) {
	f := newFixture(t, afero.NewMemMapFs())
	f.clock.Step(time.Hour)
	require.NoError(t, f.rotator.Rotate(context.Background()))
	assert.Empty(t, f.storage.paths)
}

func TestRotationReportsUploadFailure(t *testing.T) {
	f := newFixture(t, afero.NewMemMapFs())
	f.storage.err = errors.New("bucket unavailable")

	f.buffer.Append("lauv-thor", observation(t, 1))
	f.clock.Step(time.Hour)
	err := f.rotator.Rotate(context.Background())
	assert.ErrorIs(t, err, f.storage.err)
	assert.Equal(t, StateActive, f.rotator.State())
	assert.Equal(t, "/data/20250612T110000+0000_vehicles.csv", f.rotator.Target().Path)
}

func TestFailedFlushRequeues(t *testing.T) {
	fs := &denyFs{Fs: afero.NewMemMapFs(), deny: "_vehicles.csv"}
	f := newFixture(t, fs)

	f.buffer.Append("lauv-thor", observation(t, 1))
	f.buffer.Append("lauv-thor", observation(t, 2))
	assert.Error(t, f.rotator.Flush(context.Background()))
	f.buffer.Append("lauv-thor", observation(t, 3))
	assert.Equal(t, 3, f.buffer.Len("lauv-thor"))

	fs.deny = ""
	require.NoError(t, f.rotator.Flush(context.Background()))
	assert.Equal(t, []string{
		"lauv-thor,63.44,10.39,19700101000001UTC",
		"lauv-thor,63.44,10.39,19700101000002UTC",
		"lauv-thor,63.44,10.39,19700101000003UTC",
	}, rows(t, fs, f.rotator.Target().Path))
}

func TestFailedCloseDoesNotDuplicateRows(t *testing.T) {
	fs := &closeFailFs{Fs: afero.NewMemMapFs(), fail: true}
	f := newFixture(t, fs)

	f.buffer.Append("lauv-thor", observation(t, 1))
	assert.Error(t, f.rotator.Flush(context.Background()))
	assert.Equal(t, 1, f.buffer.Len("lauv-thor"))

	fs.fail = false
	require.NoError(t, f.rotator.Flush(context.Background()))
	assert.Equal(t, []string{"lauv-thor,63.44,10.39,19700101000001UTC"}, rows(t, fs, f.rotator.Target().Path))
}

func TestFailureIsIsolatedPerVehicle(t *testing.T) {
	fs := &denyFs{Fs: afero.NewMemMapFs()}
	f := newFixture(t, fs)
	f.buffer.Append("lauv-thor", observation(t, 1))
	require.NoError(t, f.rotator.Flush(context.Background()))

	// rows of every vehicle go to the same file, so deny the file for one
	// flush and check both vehicles are kept
	fs.deny = "_vehicles.csv"
	f.buffer.Append("lauv-thor", observation(t, 2))
	f.buffer.Append("lauv-roald", observation(t, 3))
	err := f.rotator.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lauv-thor")
	assert.Contains(t, err.Error(), "lauv-roald")
	assert.Equal(t, 1, f.buffer.Len("lauv-thor"))
	assert.Equal(t, 1, f.buffer.Len("lauv-roald"))
}

func TestConcurrentFlushAndRotate(t *testing.T) {
	f := newFixture(t, afero.NewMemMapFs())

	const total = 200
	obs := observation(t, 1)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			f.buffer.Append("lauv-thor", obs)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_ = f.rotator.Flush(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 5; i++ {
			f.clock.Step(time.Hour)
			_ = f.rotator.Rotate(context.Background())
		}
	}()
	wg.Wait()
	require.NoError(t, f.rotator.Flush(context.Background()))

	files, err := afero.Glob(f.fs, "/data/*_vehicles.csv")
	require.NoError(t, err)
	written := 0
	for _, path := range files {
		written += len(rows(t, f.fs, path))
	}
	assert.Equal(t, total, written, "every observation lands in exactly one file")
}
