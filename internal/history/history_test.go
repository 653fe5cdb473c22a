package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oasislabs/toolstate/internal/store"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestLatestOnEmptyLog(t *testing.T) {
	log := NewLog(store.NewMemStore())

	rec, err := log.Latest(context.Background(), "linux")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record for empty log, got %+v", rec)
	}
}

func TestAppendAndLatestPerPlatform(t *testing.T) {
	ctx := context.Background()
	log := NewLog(store.NewMemStore())

	records := []Record{
		{Time: mustTime(t, "2026-08-29T10:00:00Z"), Platform: "linux", Keys: []string{"linux/current/oasis-a1b2c3d"}},
		{Time: mustTime(t, "2026-08-29T11:00:00Z"), Platform: "darwin", Keys: []string{"darwin/current/oasis-fffffff"}},
		{Time: mustTime(t, "2026-08-30T10:00:00Z"), Platform: "linux", Keys: []string{"linux/current/oasis-1234abc"}},
	}
	for _, rec := range records {
		if err := log.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	linux, err := log.Latest(ctx, "linux")
	if err != nil {
		t.Fatal(err)
	}
	if linux == nil || linux.Keys[0] != "linux/current/oasis-1234abc" {
		t.Errorf("linux latest = %+v", linux)
	}

	darwin, err := log.Latest(ctx, "darwin")
	if err != nil {
		t.Fatal(err)
	}
	if darwin == nil || darwin.Keys[0] != "darwin/current/oasis-fffffff" {
		t.Errorf("darwin latest = %+v", darwin)
	}

	all, err := log.Records(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 records, got %d", len(all))
	}
}

func TestAppendPreservesExistingLines(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	log := NewLog(s)

	// Seed a log with a foreign record and a malformed line, as a
	// concurrent or older writer might have left it.
	seed := "2026-08-29T10:00:00Z darwin darwin/current/oasis-fffffff\nnot a record\n"
	if err := s.Put(ctx, LogKey, []byte(seed)); err != nil {
		t.Fatal(err)
	}

	rec := Record{Time: mustTime(t, "2026-08-30T10:00:00Z"), Platform: "linux", Keys: []string{"linux/current/oasis-a1b2c3d"}}
	if err := log.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := s.Get(ctx, LogKey)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), seed) {
		t.Errorf("append rewrote prior log content:\n%s", data)
	}
	if !strings.HasSuffix(string(data), rec.Line()+"\n") {
		t.Errorf("appended line missing:\n%s", data)
	}
}

func TestRecordsSkipsMalformedLines(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	log := NewLog(s)

	content := "garbage\n2026-08-29T10:00:00Z linux linux/current/oasis-a1b2c3d\n\nnot-a-time linux x\n"
	if err := s.Put(ctx, LogKey, []byte(content)); err != nil {
		t.Fatal(err)
	}

	records, err := log.Records(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 parseable record, got %d", len(records))
	}
	if records[0].Platform != "linux" || len(records[0].Keys) != 1 {
		t.Errorf("record = %+v", records[0])
	}
}

func TestLineRoundTrip(t *testing.T) {
	rec := Record{
		Time:     mustTime(t, "2026-08-30T10:00:00Z"),
		Platform: "linux",
		Keys:     []string{"linux/current/oasis-a1b2c3d", "linux/current/compiler-1234abc"},
	}

	parsed, err := ParseLine(rec.Line())
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if !parsed.Time.Equal(rec.Time) || parsed.Platform != rec.Platform || len(parsed.Keys) != 2 {
		t.Errorf("round trip = %+v", parsed)
	}
}
