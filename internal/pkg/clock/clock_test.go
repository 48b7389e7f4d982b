//go:build unit

package clock_test

import (
	"testing"
	"time"

	"course-triage/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
)

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)

	got := clock.Midnight(time.Date(2026, 3, 14, 23, 59, 59, 123, loc))
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), got)

	already := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, already, clock.Midnight(already))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	c := clock.NewMockClock(start)

	assert.Equal(t, start, c.Now())

	c.Add(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}
