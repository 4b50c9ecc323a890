// Package schedule assigns puzzle ids to publish dates and stores the assignment.
package schedule

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

// DateLayout is the key format of a Schedule.
const DateLayout = "2006-01-02"

// ErrNoSchedule is returned by stores when no schedule has been built yet.
var ErrNoSchedule = errors.New("no publish schedule")

// Schedule maps a YYYY-MM-DD date to the ids due on that date.
type Schedule map[string][]string

// Due returns the ids due on date, or nil when the date has no bucket.
func (s Schedule) Due(date string) []string {
	return s[date]
}

// Dates returns every date key in ascending order.
func (s Schedule) Dates() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates
}

// Flatten returns all ids in date order, then bucket order.
func (s Schedule) Flatten() []string {
	var ids []string
	for _, d := range s.Dates() {
		ids = append(ids, s[d]...)
	}
	return ids
}

// Len returns the total number of scheduled ids.
func (s Schedule) Len() int {
	n := 0
	for _, ids := range s {
		n += len(ids)
	}
	return n
}

// Builder lays ids out over consecutive days. Bucket sizes are drawn from Rand,
// which tests seed for reproducible schedules.
type Builder struct {
	Rand *rand.Rand
}

// NewBuilder returns a Builder drawing from a PCG source seeded with seed.
// A zero seed picks a random one.
func NewBuilder(seed uint64) *Builder {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Builder{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Build assigns ids, which must already be sorted and free of duplicates, to
// consecutive dates starting at start. Each date gets between minPerDay and
// maxPerDay ids inclusive, except possibly the last one.
func (b *Builder) Build(ids []string, start time.Time, minPerDay, maxPerDay int) (Schedule, error) {
	if minPerDay < 1 {
		return nil, fmt.Errorf("posts per day must be at least 1, got %d", minPerDay)
	}
	if maxPerDay < minPerDay {
		return nil, fmt.Errorf("invalid posts per day range [%d, %d]", minPerDay, maxPerDay)
	}
	r := b.Rand
	if r == nil {
		r = NewBuilder(0).Rand
	}

	s := make(Schedule)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for idx := 0; idx < len(ids); {
		n := minPerDay + r.IntN(maxPerDay-minPerDay+1)
		end := min(idx+n, len(ids))
		s[day.Format(DateLayout)] = slices.Clone(ids[idx:end])
		idx = end
		day = day.AddDate(0, 0, 1)
	}
	return s, nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}
