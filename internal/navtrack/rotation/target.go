package rotation

import (
	"path/filepath"
	"time"
)

// PeriodLayout formats the period start in archive file names.
const PeriodLayout = "20060102T150405-0700"

// FlushTarget is the archive file observations are currently flushed to.
type FlushTarget struct {
	PeriodStart time.Time
	Path        string
}

// NewFlushTarget returns the target of the period starting at start:
// <dir>/<start in UTC>_vehicles.csv.
func NewFlushTarget(dir string, start time.Time) FlushTarget {
	start = start.UTC()
	return FlushTarget{
		PeriodStart: start,
		Path:        filepath.Join(dir, start.Format(PeriodLayout)+"_vehicles.csv"),
	}
}

func (t FlushTarget) String() string {
	return t.Path
}
