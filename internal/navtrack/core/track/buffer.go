package track

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// Mode selects what Snapshot does to the buffer it reads.
type Mode string

const (
	// Retain keeps the full history; Snapshot returns a copy.
	Retain Mode = "retain"
	// Drain hands the contents to the caller and empties the buffer.
	Drain Mode = "drain"
)

// ParseMode accepts "retain" or "drain".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Retain, Drain:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown buffer mode %q", s)
}

// entry is the track of one vehicle. Its mutex is held only while the slice
// is appended to, copied or swapped.
type entry struct {
	mu  sync.Mutex
	obs []model.Observation
}

// Buffer holds the observations of every vehicle in arrival order.
type Buffer struct {
	name      string
	mode      Mode
	maxPoints int

	mu      sync.RWMutex
	entries map[model.VehicleID]*entry
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithMaxPoints bounds a retain buffer to the most recent n observations per
// vehicle. Zero keeps everything. Drain buffers ignore it.
func WithMaxPoints(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxPoints = n
		}
	}
}

// NewBuffer returns an empty buffer. name only shows up in logs and metrics.
func NewBuffer(name string, mode Mode, opts ...Option) *Buffer {
	b := &Buffer{
		name:    name,
		mode:    mode,
		entries: make(map[model.VehicleID]*entry),
	}
	for _, opt := range opts {
		opt(b)
	}
	if mode != Retain {
		b.maxPoints = 0
	}
	return b
}

// Name returns the buffer's name.
func (b *Buffer) Name() string { return b.name }

// Mode returns the buffer's snapshot policy.
func (b *Buffer) Mode() Mode { return b.mode }

func (b *Buffer) get(id model.VehicleID) *entry {
	b.mu.RLock()
	e, ok := b.entries[id]
	b.mu.RUnlock()
	if ok {
		return e
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok = b.entries[id]; !ok {
		e = &entry{}
		b.entries[id] = e
	}
	return e
}

func (b *Buffer) lookup(id model.VehicleID) (*entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[id]
	return e, ok
}

// Append adds obs to the end of id's track, creating the track if needed.
func (b *Buffer) Append(id model.VehicleID, obs model.Observation) {
	e := b.get(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.obs = append(e.obs, obs)
	if b.maxPoints > 0 && len(e.obs) > b.maxPoints {
		trimmed := make([]model.Observation, b.maxPoints, b.maxPoints+b.maxPoints/2+1)
		copy(trimmed, e.obs[len(e.obs)-b.maxPoints:])
		e.obs = trimmed
	}
}

// Snapshot returns id's track. In retain mode the buffer is left untouched.
// In drain mode the contents are handed over and the buffer is emptied in
// the same critical section, so a concurrent Append lands in either this
// snapshot or the next one, never both.
func (b *Buffer) Snapshot(id model.VehicleID) []model.Observation {
	e, ok := b.lookup(id)
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if b.mode == Drain {
		out := e.obs
		e.obs = nil
		return out
	}

	out := make([]model.Observation, len(e.obs))
	copy(out, e.obs)
	return out
}

// Requeue puts observations that could not be persisted back in front of
// anything appended since they were drained. It is a no-op in retain mode,
// where nothing was removed.
func (b *Buffer) Requeue(id model.VehicleID, obs []model.Observation) {
	if b.mode != Drain || len(obs) == 0 {
		return
	}
	e := b.get(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	merged := make([]model.Observation, 0, len(obs)+len(e.obs))
	merged = append(merged, obs...)
	merged = append(merged, e.obs...)
	e.obs = merged
}

// Len returns the number of observations currently held for id.
func (b *Buffer) Len(id model.VehicleID) int {
	e, ok := b.lookup(id)
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.obs)
}

// Identities returns every vehicle that has ever been appended, sorted.
func (b *Buffer) Identities() []model.VehicleID {
	b.mu.RLock()
	ids := make([]model.VehicleID, 0, len(b.entries))
	for id := range b.entries {
		ids = append(ids, id)
	}
	b.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
