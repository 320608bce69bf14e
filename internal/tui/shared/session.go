package shared

import (
	"context"

	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/timeline"
)

// Session identifies one authenticated run of the timeline. Results of
// calls made in an older session are discarded by comparing epochs.
type Session struct {
	Epoch uint64
	Ctx   context.Context
}

func (s Session) Active() bool {
	return s.Ctx != nil && s.Ctx.Err() == nil
}

// Owns reports whether a result tagged with epoch belongs to s.
func (s Session) Owns(epoch uint64) bool {
	return s.Active() && s.Epoch == epoch
}

// Backend is the message backend as seen by the TUI.
type Backend interface {
	LoadMessages(ctx context.Context) ([]timeline.Message, error)
	CurrentUser(ctx context.Context) (memoapi.User, error)
	CreateMessage(ctx context.Context, body string) (timeline.Message, error)
	UpdateMessage(ctx context.Context, id timeline.MessageID, body string) (timeline.Message, error)
	DeleteMessage(ctx context.Context, id timeline.MessageID) error
	Invalidate()
}
