package timeline

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.now += d
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			t.f()
		}
	}
}

func (s *fakeScheduler) active() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func newTestController(t *testing.T, messages ...Message) (*Controller, *Store, *fakeScheduler) {
	t.Helper()

	store := NewStore()
	store.Load(messages)
	scheduler := &fakeScheduler{}

	return NewController(store, scheduler), store, scheduler
}

var (
	msg1 = Message{ID: 1, Body: "first", CreatedAt: "2025-01-16T12:00:00Z"}
	msg2 = Message{ID: 2, Body: "second", CreatedAt: "2025-01-16T13:00:00Z"}
)

func TestControllerMenuIsExclusive(t *testing.T) {
	c, _, _ := newTestController(t, msg1, msg2)

	require.True(t, c.OpenMenu(1))
	require.Equal(t, ModeMenuOpen, c.State(1).Mode)

	require.True(t, c.OpenMenu(2))
	require.Equal(t, ModeViewing, c.State(1).Mode)
	require.Equal(t, ModeMenuOpen, c.State(2).Mode)

	require.True(t, c.ToggleMenu(2))
	require.Equal(t, ModeViewing, c.State(2).Mode)
}

func TestControllerUnknownIDIsIgnored(t *testing.T) {
	c, _, _ := newTestController(t, msg1)

	require.False(t, c.OpenMenu(99))
	require.False(t, c.RequestDelete(99))
	c.DeleteFailed(99, "x")
	c.CopySucceeded(99)
	require.Equal(t, ItemState{}, c.State(99))
}

func TestControllerCancelEditKeepsBody(t *testing.T) {
	c, store, _ := newTestController(t, msg1)

	require.True(t, c.OpenMenu(1))
	require.True(t, c.StartEdit(1))

	edit, ok := c.Edit()
	require.True(t, ok)
	require.Equal(t, "first", edit.Draft)

	require.True(t, c.SetDraft(1, "changed"))
	require.True(t, c.CancelEdit(1))

	_, ok = c.Edit()
	require.False(t, ok)
	require.Equal(t, ModeViewing, c.State(1).Mode)

	stored, _ := store.Get(1)
	require.Equal(t, "first", stored.Body)
}

func TestControllerEditRequiresOpenMenu(t *testing.T) {
	c, _, _ := newTestController(t, msg1)

	require.False(t, c.StartEdit(1))
	_, ok := c.Edit()
	require.False(t, ok)
}

func TestControllerSaveGuards(t *testing.T) {
	c, _, _ := newTestController(t, msg1)

	require.True(t, c.OpenMenu(1))
	require.True(t, c.StartEdit(1))

	require.True(t, c.SetDraft(1, ""))
	_, ok := c.BeginSave(1)
	require.False(t, ok, "empty draft must not be sent")

	require.True(t, c.SetDraft(1, "new"))
	body, ok := c.BeginSave(1)
	require.True(t, ok)
	require.Equal(t, "new", body)

	_, ok = c.BeginSave(1)
	require.False(t, ok, "second save while pending must be suppressed")
	require.False(t, c.SetDraft(1, "other"))
	require.False(t, c.CancelEdit(1))
}

func TestControllerFailedSaveKeepsDraftThenServerBodyWins(t *testing.T) {
	c, store, _ := newTestController(t, msg1)

	require.True(t, c.OpenMenu(1))
	require.True(t, c.StartEdit(1))
	require.True(t, c.SetDraft(1, "  typed draft  "))

	_, ok := c.BeginSave(1)
	require.True(t, ok)
	c.SaveFailed(1, "failed to update")

	edit, ok := c.Edit()
	require.True(t, ok)
	require.Equal(t, "  typed draft  ", edit.Draft)
	require.Equal(t, "failed to update", edit.Err)
	require.False(t, edit.Pending)
	require.Equal(t, ModeEditing, c.State(1).Mode)

	_, ok = c.BeginSave(1)
	require.True(t, ok)

	edit, _ = c.Edit()
	require.Empty(t, edit.Err)

	saved := Message{ID: 1, Body: "typed draft", CreatedAt: msg1.CreatedAt}
	c.SaveSucceeded(1, saved)

	_, ok = c.Edit()
	require.False(t, ok)
	require.Equal(t, ModeViewing, c.State(1).Mode)

	stored, _ := store.Get(1)
	require.Equal(t, "typed draft", stored.Body)
}

func TestControllerSingleEditSession(t *testing.T) {
	c, _, _ := newTestController(t, msg1, msg2)

	require.True(t, c.OpenMenu(1))
	require.True(t, c.StartEdit(1))

	require.True(t, c.OpenMenu(2))
	require.True(t, c.StartEdit(2))

	edit, _ := c.Edit()
	require.Equal(t, MessageID(2), edit.MessageID)
	require.Equal(t, ModeViewing, c.State(1).Mode)

	_, ok := c.BeginSave(2)
	require.True(t, ok)

	require.True(t, c.OpenMenu(1))
	require.False(t, c.StartEdit(1), "a pending session blocks a new one")
}

func TestControllerDeleteNeedsConfirmation(t *testing.T) {
	c, store, _ := newTestController(t, msg1)

	require.True(t, c.OpenMenu(1))
	require.True(t, c.RequestDelete(1))
	require.Equal(t, ModeConfirmingDelete, c.State(1).Mode)

	require.True(t, c.DeclineDelete(1))
	require.Equal(t, ModeMenuOpen, c.State(1).Mode)
	require.False(t, c.State(1).DeletePending)
	require.True(t, store.Contains(1))
}

func TestControllerDeleteFailureThenRetry(t *testing.T) {
	c, store, _ := newTestController(t, msg1)

	require.False(t, c.ConfirmDelete(1), "confirm without request")

	require.True(t, c.RequestDelete(1))
	require.True(t, c.ConfirmDelete(1))
	require.False(t, c.ConfirmDelete(1))
	require.False(t, c.RequestDelete(1), "no second delete while pending")

	c.DeleteFailed(1, "failed to delete")
	require.True(t, store.Contains(1))
	require.Equal(t, "failed to delete", c.State(1).DeleteErr)

	require.True(t, c.RetryDelete(1))
	require.True(t, c.State(1).DeletePending)
	require.False(t, c.RetryDelete(1))

	c.DeleteSucceeded(1)
	require.False(t, store.Contains(1))
	require.Equal(t, ItemState{}, c.State(1))
}

func TestControllerDeleteTearsDownEditAndTimer(t *testing.T) {
	c, store, scheduler := newTestController(t, msg1, msg2)

	c.CopySucceeded(1)
	require.Equal(t, 1, scheduler.active())

	require.True(t, c.OpenMenu(1))
	require.True(t, c.StartEdit(1))

	// deleted elsewhere while the edit is open
	store.Remove(1)
	c.Prune()

	_, ok := c.Edit()
	require.False(t, ok)
	require.Equal(t, 0, scheduler.active())

	scheduler.Advance(CopyFeedbackDuration)
	require.Equal(t, ItemState{}, c.State(1))
}

func TestControllerCopyFeedbackRestarts(t *testing.T) {
	c, _, scheduler := newTestController(t, msg1)

	c.CopySucceeded(1)
	require.True(t, c.State(1).Copied)

	scheduler.Advance(1500 * time.Millisecond)
	c.CopySucceeded(1)
	require.Equal(t, 1, scheduler.active())

	scheduler.Advance(1000 * time.Millisecond)
	require.True(t, c.State(1).Copied, "expiry is measured from the second copy")

	scheduler.Advance(1000 * time.Millisecond)
	require.False(t, c.State(1).Copied)
	require.Equal(t, 0, scheduler.active())
}

func TestControllerStaleCopyCallbackIsIgnored(t *testing.T) {
	c, _, scheduler := newTestController(t, msg1)

	c.CopySucceeded(1)
	first := scheduler.timers[0]
	c.CopySucceeded(1)

	// a callback that raced with Stop must not clear the newer indicator
	first.f()
	require.True(t, c.State(1).Copied)
}

func TestControllerCopyErrorDismissedOnNextAction(t *testing.T) {
	c, _, _ := newTestController(t, msg1)

	c.CopyFailed(1, "clipboard unavailable")
	require.Equal(t, "clipboard unavailable", c.State(1).CopyErr)

	require.True(t, c.OpenMenu(1))
	require.Empty(t, c.State(1).CopyErr)
}

func TestControllerReset(t *testing.T) {
	c, _, scheduler := newTestController(t, msg1, msg2)

	c.CopySucceeded(1)
	c.CopySucceeded(2)
	require.True(t, c.OpenMenu(2))
	require.True(t, c.StartEdit(2))

	c.Reset()

	require.Equal(t, 0, scheduler.active())
	_, ok := c.Edit()
	require.False(t, ok)
	for _, id := range []MessageID{1, 2} {
		require.Equal(t, ItemState{}, c.State(id))
	}
	require.True(t, slices.ContainsFunc(scheduler.timers, func(t *fakeTimer) bool { return t.stopped }))
}
