package eventlog

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Mavwarf/appicon/internal/config"
	"github.com/Mavwarf/appicon/internal/paths"
)

// Run is one recorded generate invocation.
type Run struct {
	Time       time.Time
	Input      string
	Output     string
	Prefix     string
	Files      int
	Normalized bool
	Duration   time.Duration
	Err        string // empty on success
}

// OK reports whether the run succeeded.
func (r Run) OK() bool {
	return r.Err == ""
}

// Store abstracts run history storage. FileStore keeps a flat log file;
// SQLiteStore keeps a database.
type Store interface {
	Log(r Run) error
	Entries(limit int) ([]Run, error) // newest first, 0 = all
	Path() string
	Close() error
}

// Open returns the store for backend rooted at dir. HistoryOff yields
// a nil Store and no error.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case config.HistoryOff:
		return nil, nil
	case config.HistorySQLite:
		return NewSQLiteStore(filepath.Join(dir, paths.DBFileName))
	case config.HistoryFile, "":
		return NewFileStore(filepath.Join(dir, paths.LogFileName)), nil
	default:
		return nil, fmt.Errorf("eventlog: unknown backend %q", backend)
	}
}

func limitRuns(runs []Run, limit int) []Run {
	if limit > 0 && len(runs) > limit {
		return runs[:limit]
	}
	return runs
}
