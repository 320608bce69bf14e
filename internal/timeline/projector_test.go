package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func separatorLabels(items []Item) []string {
	labels := make([]string, 0)
	for _, item := range items {
		if item.Kind == ItemSeparator {
			labels = append(labels, item.Label)
		}
	}

	return labels
}

func TestProjectDoesNotInterpolateMissingDays(t *testing.T) {
	items := Project([]Message{
		{ID: 1, Body: "day1", CreatedAt: "2025-01-16T12:00:00Z"},
		{ID: 2, Body: "day3", CreatedAt: "2025-01-18T12:00:00Z"},
	})

	require.Equal(t, []string{"2025/01/16", "2025/01/18"}, separatorLabels(items))
	require.Len(t, items, 4)
	require.Equal(t, ItemSeparator, items[0].Kind)
	require.Equal(t, MessageID(1), items[1].Message.ID)
	require.Equal(t, ItemSeparator, items[2].Kind)
	require.Equal(t, MessageID(2), items[3].Message.ID)
}

func TestProjectSameDayHasOneSeparator(t *testing.T) {
	items := Project([]Message{
		{ID: 1, Body: "m1", CreatedAt: "2025-01-16T12:00:00Z"},
		{ID: 2, Body: "m2", CreatedAt: "2025-01-16T13:00:00Z"},
		{ID: 3, Body: "m3", CreatedAt: "2025-01-16T14:00:00Z"},
	})

	require.Equal(t, []string{"2025/01/16"}, separatorLabels(items))
	require.Len(t, items, 4)
}

func TestProjectIsDeterministic(t *testing.T) {
	messages := []Message{
		{ID: 1, Body: "a", CreatedAt: "2025-01-16T23:59:59Z"},
		{ID: 2, Body: "b", CreatedAt: "2025-01-17T00:00:00Z"},
		{ID: 3, Body: "c", CreatedAt: "not a time"},
	}

	require.Equal(t, Project(messages), Project(messages))
}

func TestProjectUsesUTCDayBoundary(t *testing.T) {
	// 2025-01-16T23:30 in UTC-05:00 is 2025-01-17 in UTC.
	items := Project([]Message{
		{ID: 1, Body: "a", CreatedAt: "2025-01-16T20:00:00Z"},
		{ID: 2, Body: "b", CreatedAt: "2025-01-16T23:30:00-05:00"},
	})

	require.Equal(t, []string{"2025/01/16", "2025/01/17"}, separatorLabels(items))
}

func TestProjectLabelIgnoresLocalZone(t *testing.T) {
	orig := time.Local
	t.Cleanup(func() { time.Local = orig })
	time.Local = time.FixedZone("JST", 9*60*60)

	items := Project([]Message{
		{ID: 1, Body: "a", CreatedAt: "2025-01-16T20:00:00Z"},
	})

	require.Equal(t, []string{"2025/01/16"}, separatorLabels(items))
}

func TestProjectFallsBackToRawTimestamp(t *testing.T) {
	items := Project([]Message{
		{ID: 1, Body: "a", CreatedAt: "yesterday"},
		{ID: 2, Body: "b", CreatedAt: "yesterday"},
		{ID: 3, Body: "c", CreatedAt: "2025-01-16T12:00:00Z"},
	})

	require.Equal(t, []string{"yesterday", "2025/01/16"}, separatorLabels(items))
}

func TestProjectNeverEmitsAdjacentSeparators(t *testing.T) {
	items := Project([]Message{
		{ID: 1, CreatedAt: "2025-01-01T00:00:00Z"},
		{ID: 2, CreatedAt: "2025-01-02T00:00:00Z"},
		{ID: 3, CreatedAt: "2025-01-01T00:00:00Z"},
		{ID: 4, CreatedAt: "bogus"},
	})

	for i := 1; i < len(items); i++ {
		require.False(t, items[i-1].Kind == ItemSeparator && items[i].Kind == ItemSeparator)
	}
	require.Equal(t, ItemMessage, items[len(items)-1].Kind)
}

func TestProjectEmpty(t *testing.T) {
	require.Empty(t, Project(nil))
}
