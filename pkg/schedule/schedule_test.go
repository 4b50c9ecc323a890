package schedule

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%03d", i)
	}
	return ids
}

func TestBuildSingleRange(t *testing.T) {
	start := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	s, err := NewBuilder(1).Build([]string{"a", "b"}, start, 1, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := Schedule{"2026-02-20": {"a"}, "2026-02-21": {"b"}}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Build() = %v, want %v", s, want)
	}
}

func TestBuildPreservesOrderForAnyRange(t *testing.T) {
	start := time.Date(2026, 12, 30, 15, 4, 5, 0, time.UTC)
	ranges := [][2]int{{1, 1}, {1, 3}, {2, 2}, {3, 7}, {10, 10}}
	for _, n := range []int{0, 1, 2, 17, 287} {
		for _, rg := range ranges {
			t.Run(fmt.Sprintf("n=%d/range=%v", n, rg), func(t *testing.T) {
				ids := makeIDs(n)
				s, err := NewBuilder(uint64(n*31+rg[0]+1)).Build(ids, start, rg[0], rg[1])
				if err != nil {
					t.Fatalf("Build failed: %v", err)
				}
				flat := s.Flatten()
				if len(flat) != len(ids) || (n > 0 && !reflect.DeepEqual(flat, ids)) {
					t.Fatalf("flattened schedule %v does not reproduce %v", flat, ids)
				}

				dates := s.Dates()
				day := time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)
				for i, d := range dates {
					if d != day.Format(DateLayout) {
						t.Fatalf("date %d = %s, want consecutive %s", i, d, day.Format(DateLayout))
					}
					size := len(s[d])
					last := i == len(dates)-1
					if size > rg[1] || (!last && size < rg[0]) || size == 0 {
						t.Errorf("bucket %s has %d ids, outside [%d, %d]", d, size, rg[0], rg[1])
					}
					day = day.AddDate(0, 0, 1)
				}
			})
		}
	}
}

func TestBuildIsReproducibleWithSeed(t *testing.T) {
	start := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	ids := makeIDs(50)
	a, _ := NewBuilder(42).Build(ids, start, 1, 3)
	b, _ := NewBuilder(42).Build(ids, start, 1, 3)
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical schedules for the same seed")
	}
}

func TestBuildRejectsBadRange(t *testing.T) {
	b := NewBuilder(1)
	if _, err := b.Build([]string{"a"}, time.Now(), 0, 1); err == nil {
		t.Error("expected an error for min < 1")
	}
	if _, err := b.Build([]string{"a"}, time.Now(), 3, 2); err == nil {
		t.Error("expected an error for max < min")
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "posts_schedule.json")
	fs := NewFileStore(path)

	if _, err := fs.Load(); !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("expected ErrNoSchedule before saving, got %v", err)
	}

	s := Schedule{"2026-02-21": {"b"}, "2026-02-20": {"a", "c"}}
	if err := fs.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := fs.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, s) {
		t.Errorf("Load() = %v, want %v", loaded, s)
	}
	if got := loaded.Due("2026-02-20"); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Due() = %v", got)
	}
	if got := loaded.Due("2030-01-01"); got != nil {
		t.Errorf("expected no bucket, got %v", got)
	}

	// Rebuilding overwrites the whole file.
	if err := fs.Save(Schedule{"2027-01-01": {"z"}}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	loaded, _ = fs.Load()
	if loaded.Len() != 1 || loaded.Due("2026-02-20") != nil {
		t.Errorf("expected the old schedule to be discarded, got %v", loaded)
	}
}
