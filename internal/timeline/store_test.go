package timeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ids(messages []Message) []MessageID {
	out := make([]MessageID, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}

func TestStoreKeepsArrivalOrder(t *testing.T) {
	s := NewStore()
	s.Load([]Message{
		{ID: 3, CreatedAt: "2025-01-18T00:00:00Z"},
		{ID: 1, CreatedAt: "2025-01-16T00:00:00Z"},
	})
	s.Append(Message{ID: 2, CreatedAt: "2025-01-17T00:00:00Z"})

	require.Equal(t, []MessageID{3, 1, 2}, ids(s.Messages()))

	newest, ok := s.Newest()
	require.True(t, ok)
	require.Equal(t, MessageID(2), newest.ID)
}

func TestStoreReplaceInPlace(t *testing.T) {
	s := NewStore()
	s.Load([]Message{{ID: 1, Body: "a"}, {ID: 2, Body: "b"}, {ID: 3, Body: "c"}})

	require.True(t, s.Replace(Message{ID: 2, Body: "B"}))
	require.Equal(t, []MessageID{1, 2, 3}, ids(s.Messages()))

	got, ok := s.Get(2)
	require.True(t, ok)
	require.Equal(t, "B", got.Body)
}

func TestStoreUnknownIDsAreNoops(t *testing.T) {
	s := NewStore()
	s.Load([]Message{{ID: 1, Body: "a"}})

	require.False(t, s.Replace(Message{ID: 9, Body: "x"}))
	require.False(t, s.Remove(9))
	require.Equal(t, []Message{{ID: 1, Body: "a"}}, s.Messages())
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	s.Load([]Message{{ID: 1}, {ID: 2}, {ID: 3}})

	require.True(t, s.Remove(2))
	require.Equal(t, []MessageID{1, 3}, ids(s.Messages()))

	s.Clear()
	require.Equal(t, 0, s.Len())
	_, ok := s.Newest()
	require.False(t, ok)
}

func TestStoreLoadCopiesInput(t *testing.T) {
	input := []Message{{ID: 1, Body: "a"}}

	s := NewStore()
	s.Load(input)
	input[0].Body = "mutated"

	got, _ := s.Get(1)
	require.Equal(t, "a", got.Body)

	out := s.Messages()
	out[0].Body = "mutated"
	got, _ = s.Get(1)
	require.Equal(t, "a", got.Body)
}
