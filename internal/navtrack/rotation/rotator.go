package rotation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/spf13/afero"
	"k8s.io/utils/clock"

	"github.com/sfiharvest/navtrack/internal/navtrack/core"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/track"
	"github.com/sfiharvest/navtrack/internal/navtrack/writer"
	"github.com/sfiharvest/navtrack/internal/pkg/metrics"
	fsmutil "github.com/sfiharvest/navtrack/internal/pkg/util/fsm"
	"github.com/sfiharvest/navtrack/pkg/log"
)

const (
	StateActive   = "active"
	StateRotating = "rotating"

	// EventRotate leaves the current period; the buffer is flushed into the
	// closing target on the way out.
	EventRotate = "rotate"
	// EventActivate installs the target of the next period.
	EventActivate = "activate"
)

// Config holds the collaborators of a Rotator.
type Config struct {
	Dir     string
	Buffer  *track.Buffer
	Archive *writer.Archive
	// Fs is used to check that a closed target exists before uploading it.
	Fs    afero.Fs
	Clock clock.PassiveClock
	// Storage receives closed targets. Nil disables uploads.
	Storage core.ArchiveStorage
}

// Rotator owns the current FlushTarget. Archive flushes and rotations are
// serialised by its target lock; ingestion never takes it.
type Rotator struct {
	dir     string
	buffer  *track.Buffer
	archive *writer.Archive
	fs      afero.Fs
	clock   clock.PassiveClock
	storage core.ArchiveStorage
	logger  log.Logger

	mu     sync.Mutex
	target FlushTarget
	fsm    *fsm.FSM
}

// New starts the first period at the current time of cfg.Clock.
func New(cfg Config) (*Rotator, error) {
	if cfg.Buffer == nil || cfg.Archive == nil {
		return nil, errors.New("rotation: buffer and archive writer are required")
	}
	if cfg.Buffer.Mode() != track.Drain {
		return nil, fmt.Errorf("rotation: archive buffer must drain, got %q", cfg.Buffer.Mode())
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}

	r := &Rotator{
		dir:     cfg.Dir,
		buffer:  cfg.Buffer,
		archive: cfg.Archive,
		fs:      cfg.Fs,
		clock:   cfg.Clock,
		storage: cfg.Storage,
		logger:  log.WithName("rotation"),
		target:  NewFlushTarget(cfg.Dir, cfg.Clock.Now()),
	}

	r.fsm = fsm.NewFSM(
		StateActive,
		fsm.Events{
			{Name: EventRotate, Src: []string{StateActive}, Dst: StateRotating},
			{Name: EventActivate, Src: []string{StateRotating}, Dst: StateActive},
		},
		fsm.Callbacks{
			"enter_" + StateRotating: fsmutil.WrapEvent(r.actionEnterRotating),
			"enter_" + StateActive:   fsmutil.WrapEvent(r.actionEnterActive),
		},
	)
	return r, nil
}

// Target returns the current flush target.
func (r *Rotator) Target() FlushTarget {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// State returns the state machine's current state.
func (r *Rotator) State() string {
	return r.fsm.Current()
}

// Flush drains the archive buffer into the current target. Vehicles whose
// rows could not be written are put back into the buffer for the next
// flush; the others are unaffected.
func (r *Rotator) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked(r.target)
}

func (r *Rotator) flushLocked(target FlushTarget) error {
	defer metrics.ObserveFlush("archive", time.Now())

	var errs []error
	for _, id := range r.buffer.Identities() {
		obs := r.buffer.Snapshot(id)
		if len(obs) == 0 {
			continue
		}
		err := r.archive.Append(target.Path, id, obs)
		metrics.FlushesTotal.WithLabelValues("archive", metrics.Result(err)).Inc()
		if err != nil {
			r.buffer.Requeue(id, obs)
			r.logger.Error(err, "Failed to archive observations, keeping them for the next flush",
				"vehicle", id, "count", len(obs), "path", target.Path)
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		r.logger.Debug("Archived observations", "vehicle", id, "count", len(obs), "path", target.Path)
	}
	return errors.Join(errs...)
}

// Rotate closes the current period and opens the next one, starting now.
// Everything buffered before the switch goes to the closing file and
// everything after to the new one. The closed file is uploaded afterwards,
// outside the target lock.
func (r *Rotator) Rotate(ctx context.Context) error {
	r.mu.Lock()
	closed := r.target
	flushErr := r.fsm.Event(ctx, EventRotate, closed)
	next := NewFlushTarget(r.dir, r.clock.Now())
	if err := r.fsm.Event(ctx, EventActivate, next); fsmutil.IsRealError(err) {
		r.mu.Unlock()
		return fmt.Errorf("activate %s: %w", next.Path, err)
	}
	r.mu.Unlock()

	metrics.RotationsTotal.Inc()
	r.logger.Info("Rotated archive file", "closed", closed.Path, "current", next.Path)

	if flushErr != nil {
		flushErr = fmt.Errorf("flush before rotation: %w", flushErr)
	}
	return errors.Join(flushErr, r.upload(ctx, closed))
}

func (r *Rotator) actionEnterRotating(_ context.Context, e *fsm.Event) error {
	return r.flushLocked(e.Args[0].(FlushTarget))
}

func (r *Rotator) actionEnterActive(_ context.Context, e *fsm.Event) error {
	r.target = e.Args[0].(FlushTarget)
	return nil
}

func (r *Rotator) upload(ctx context.Context, closed FlushTarget) error {
	if r.storage == nil {
		return nil
	}
	exists, err := afero.Exists(r.fs, closed.Path)
	if err != nil || !exists {
		// nothing was archived during the period
		return err
	}

	err = r.storage.Upload(ctx, closed.Path)
	metrics.UploadsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("upload %s: %w", closed.Path, err)
	}
	r.logger.Info("Uploaded archive file", "path", closed.Path)
	return nil
}
