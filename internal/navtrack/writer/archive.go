package writer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// ArchiveTimeLayout formats the datetime column, e.g. 20250612103000UTC.
const ArchiveTimeLayout = "20060102150405MST"

var archiveHeader = []string{"vehicle_id", "lat", "long", "datetime"}

// Archive appends observations as CSV rows to period files. It does not
// track which file is current; callers pass the path of their flush target.
type Archive struct {
	fs afero.Fs
}

func NewArchive(fs afero.Fs) *Archive {
	return &Archive{fs: fs}
}

// Header returns the column names of archive files.
func Header() []string {
	return append([]string(nil), archiveHeader...)
}

// Append adds one row per observation to path. The header is written only
// when the file is new or empty, so a file left behind by an earlier run is
// continued rather than truncated. Appending nothing is a no-op.
//
// A failed append leaves path as it was: the file is cut back to its
// previous size, or removed if this call created it, so callers can retry
// the same rows without duplicating them.
func (a *Archive) Append(path string, id model.VehicleID, obs []model.Observation) error {
	if len(obs) == 0 {
		return nil
	}

	if err := a.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	_, statErr := a.fs.Stat(path)
	created := os.IsNotExist(statErr)

	f, err := a.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()

	if err := a.write(f, size == 0, id, obs); err != nil {
		_ = f.Close()
		return a.rollback(path, size, created, fmt.Errorf("write %s: %w", path, err))
	}
	if err := f.Close(); err != nil {
		return a.rollback(path, size, created, fmt.Errorf("close %s: %w", path, err))
	}
	return nil
}

func (a *Archive) write(f afero.File, header bool, id model.VehicleID, obs []model.Observation) error {
	w := csv.NewWriter(f)
	if header {
		if err := w.Write(archiveHeader); err != nil {
			return err
		}
	}
	for _, o := range obs {
		if err := w.Write(row(id, o)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// rollback restores path to size bytes and returns cause joined with any
// error met while doing so.
func (a *Archive) rollback(path string, size int64, created bool, cause error) error {
	if created {
		if err := a.fs.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Join(cause, fmt.Errorf("remove %s: %w", path, err))
		}
		return cause
	}

	f, err := a.fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return errors.Join(cause, fmt.Errorf("reopen %s: %w", path, err))
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		return errors.Join(cause, fmt.Errorf("truncate %s: %w", path, err))
	}
	if err := f.Close(); err != nil {
		return errors.Join(cause, fmt.Errorf("close %s: %w", path, err))
	}
	return cause
}

func row(id model.VehicleID, o model.Observation) []string {
	return []string{
		id.String(),
		strconv.FormatFloat(o.Latitude(), 'f', -1, 64),
		strconv.FormatFloat(o.Longitude(), 'f', -1, 64),
		o.Time().Format(ArchiveTimeLayout),
	}
}
