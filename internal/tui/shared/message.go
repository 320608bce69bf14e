package shared

import (
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/timeline"
)

type (
	ReturnToTimelineMsg struct{}

	FocusComposerMsg struct{}

	SessionStartedMsg struct {
		Session Session
	}

	// SessionLoadedMsg carries the session bootstrap: the current user and
	// the message collection, each with its own error.
	SessionLoadedMsg struct {
		Epoch       uint64
		User        memoapi.User
		UserErr     error
		Messages    []timeline.Message
		MessagesErr error
	}

	// SessionExpiredMsg is emitted by any component whose call in the
	// session failed with memoapi.ErrAuthExpired.
	SessionExpiredMsg struct {
		Epoch uint64
	}

	SessionEndedMsg struct {
		Reason EndReason
	}

	// TimelineChangedMsg asks the timeline to re-render after the store
	// was mutated outside of it.
	TimelineChangedMsg struct{}
)

type EndReason int

const (
	EndReasonNoToken EndReason = iota
	EndReasonExpired
	EndReasonQuit
)
