// Package history maintains the append-only build history log.
//
// The log is a single newline-delimited object at a well-known key shared
// across all platforms. Each line records one completed promotion:
//
//	<RFC3339 time> <platform> <key1> <key2> ...
//
// Appends are read-modify-write of the whole object. A lost update from a
// concurrent foreign-platform append costs that platform one redundant
// build cycle; it never corrupts state, since each platform only reads its
// own most recent record.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oasislabs/toolstate/internal/store"
)

// LogKey is the fixed object key holding the history log.
const LogKey = "history/log"

// Record describes one completed build batch for a platform.
type Record struct {
	Time     time.Time
	Platform string
	Keys     []string
}

// Line renders the record in log format.
func (r Record) Line() string {
	parts := append([]string{r.Time.UTC().Format(time.RFC3339), r.Platform}, r.Keys...)
	return strings.Join(parts, " ")
}

// ParseLine parses a single log line.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Record{}, fmt.Errorf("malformed history line %q", line)
	}
	ts, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return Record{}, fmt.Errorf("malformed history timestamp %q: %w", fields[0], err)
	}
	return Record{Time: ts, Platform: fields[1], Keys: fields[2:]}, nil
}

// Log reads and appends history records through an ObjectStore.
type Log struct {
	Store store.ObjectStore
	Key   string
}

// NewLog creates a Log at the well-known key.
func NewLog(s store.ObjectStore) *Log {
	return &Log{Store: s, Key: LogKey}
}

// Records returns every parseable record in the log, oldest first.
// A missing log object is an empty history, not an error. Malformed lines
// are skipped on read and left untouched on write.
func (l *Log) Records(ctx context.Context) ([]Record, error) {
	data, err := l.raw(ctx)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, parseErr := ParseLine(line)
		if parseErr != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Latest returns the most recent record for a platform, or nil if the
// platform has never completed a promotion.
func (l *Log) Latest(ctx context.Context, platform string) (*Record, error) {
	records, err := l.Records(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Platform == platform {
			rec := records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// Append adds a record to the end of the log. Existing lines are carried
// over byte-for-byte; the log is never rewritten or compacted.
func (l *Log) Append(ctx context.Context, rec Record) error {
	data, err := l.raw(ctx)
	if err != nil {
		return err
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	data = append(data, rec.Line()...)
	data = append(data, '\n')

	return l.Store.Put(ctx, l.Key, data)
}

func (l *Log) raw(ctx context.Context) ([]byte, error) {
	data, err := l.Store.Get(ctx, l.Key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
