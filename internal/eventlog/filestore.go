package eventlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Mavwarf/appicon/internal/paths"
)

// FileStore implements Store using a flat log file, one line per run.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore that reads and writes the given log file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Close() error { return nil }

// openLog opens (or creates) the log file for appending, creating the
// parent directory if needed.
func (f *FileStore) openLog() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), paths.DirPerm); err != nil {
		return nil, err
	}
	return os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
}

func (f *FileStore) Log(r Run) error {
	file, err := f.openLog()
	if err != nil {
		return err
	}
	defer file.Close()

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%s  input=%q  output=%q  prefix=%q  files=%d  normalized=%t  duration_ms=%d",
		ts.Format(time.RFC3339), r.Input, r.Output, r.Prefix, r.Files, r.Normalized, r.Duration.Milliseconds())
	if r.OK() {
		line += "  status=ok"
	} else {
		line += fmt.Sprintf("  status=error  error=%q", r.Err)
	}
	_, err = fmt.Fprintln(file, line)
	return err
}

func (f *FileStore) Entries(limit int) ([]Run, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	runs := ParseRuns(string(data))
	// File order is oldest first.
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return limitRuns(runs, limit), nil
}

// ParseRuns parses log content into runs in file order. Malformed lines
// are silently skipped.
func ParseRuns(content string) []Run {
	var runs []Run
	for _, line := range strings.Split(content, "\n") {
		ts, ok := ExtractTimestamp(line)
		if !ok {
			continue
		}
		f := splitFields(line)
		files, _ := strconv.Atoi(f["files"])
		ms, _ := strconv.ParseInt(f["duration_ms"], 10, 64)
		r := Run{
			Time:       ts,
			Input:      f["input"],
			Output:     f["output"],
			Prefix:     f["prefix"],
			Files:      files,
			Normalized: f["normalized"] == "true",
			Duration:   time.Duration(ms) * time.Millisecond,
		}
		if f["status"] == "error" {
			r.Err = f["error"]
			if r.Err == "" {
				r.Err = "unknown error"
			}
		}
		runs = append(runs, r)
	}
	return runs
}

// ExtractTimestamp parses the RFC 3339 timestamp at the start of a log
// line (terminated by two spaces).
func ExtractTimestamp(line string) (time.Time, bool) {
	tsEnd := strings.Index(line, "  ")
	if tsEnd < 0 {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, line[:tsEnd])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// splitFields returns the key=value pairs that follow the timestamp.
// Values are read left to right, so a quoted value is consumed whole
// and text inside it (" files=3") is never taken for a key. Parsing
// stops at the first malformed pair.
func splitFields(line string) map[string]string {
	fields := map[string]string{}
	i := strings.Index(line, "  ")
	if i < 0 {
		return fields
	}
	s := line[i:]
	for {
		s = strings.TrimLeft(s, " ")
		eq := strings.IndexByte(s, '=')
		if eq <= 0 || strings.IndexByte(s[:eq], ' ') >= 0 {
			return fields
		}
		key := s[:eq]
		s = s[eq+1:]
		if strings.HasPrefix(s, `"`) {
			n := quotedLen(s)
			if n < 0 {
				return fields
			}
			v, err := strconv.Unquote(s[:n])
			if err != nil {
				return fields
			}
			fields[key] = v
			s = s[n:]
			continue
		}
		end := strings.IndexByte(s, ' ')
		if end < 0 {
			end = len(s)
		}
		fields[key] = s[:end]
		s = s[end:]
	}
}

// quotedLen returns the length of the Go %q-encoded string at the start
// of s, closing quote included, or -1 if it is unterminated.
func quotedLen(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++ // skip escaped character
			continue
		}
		if s[i] == '"' {
			return i + 1
		}
	}
	return -1
}
