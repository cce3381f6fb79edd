package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextDayBlocks(t *testing.T) {
	st := newTestStore(t)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)

	out := st.Context(now, 3)

	assert.True(t, strings.HasPrefix(out, "Current Calendar:\n"))
	assert.Contains(t, out, "Today (2026-09-01):")
	assert.Contains(t, out, "Tomorrow (2026-09-02):")
	assert.Contains(t, out, "Thursday, Sep 03 (2026-09-03):")

	// Exactly three day blocks, all empty.
	assert.Equal(t, 3, strings.Count(out, "- No events scheduled"))

	// Strictly increasing date order.
	assert.Less(t,
		strings.Index(out, "2026-09-01"),
		strings.Index(out, "2026-09-02"))
	assert.Less(t,
		strings.Index(out, "2026-09-02"),
		strings.Index(out, "2026-09-03"))
}

func TestContextSortsByStartTime(t *testing.T) {
	st := newTestStore(t)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)

	// Inserted out of time order on purpose.
	_, err := st.AddEvent("2026-09-01", "2:00pm", "3:00pm", "Review", "")
	require.NoError(t, err)
	id, err := st.AddEvent("2026-09-01", "9:00am", "10:00am", "Standup", "daily sync")
	require.NoError(t, err)

	out := st.Context(now, 1)

	standupLine := "- 9:00am-10:00am: Standup (daily sync) [ID: " + id + "]"
	assert.Contains(t, out, standupLine)
	assert.Contains(t, out, "- 2:00pm-3:00pm: Review [ID: ")
	assert.Less(t, strings.Index(out, "Standup"), strings.Index(out, "Review"))
	assert.NotContains(t, out, "No events scheduled")
}

func TestContextStableForEqualStartTimes(t *testing.T) {
	st := newTestStore(t)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)

	_, err := st.AddEvent("2026-09-01", "9:00am", "10:00am", "First", "")
	require.NoError(t, err)
	_, err = st.AddEvent("2026-09-01", "9:00am", "10:00am", "Second", "")
	require.NoError(t, err)

	out := st.Context(now, 1)
	assert.Less(t, strings.Index(out, "First"), strings.Index(out, "Second"))
}

func TestContextExposesEveryID(t *testing.T) {
	st := newTestStore(t)
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)

	idA, err := st.AddEvent("2026-09-01", "9:00am", "10:00am", "A", "")
	require.NoError(t, err)
	idB, err := st.AddEvent("2026-09-02", "1:00pm", "2:00pm", "B", "")
	require.NoError(t, err)

	out := st.Context(now, 7)
	assert.Contains(t, out, "[ID: "+idA+"]")
	assert.Contains(t, out, "[ID: "+idB+"]")
}
