package header

import (
	"context"
	"testing"

	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/tui/shared"
	"github.com/stretchr/testify/require"
)

func TestHeaderFollowsSession(t *testing.T) {
	m := New(80, 1, "localhost:8080", shared.DefaultTheme())
	require.Contains(t, m.View(), "not logged in")
	require.Contains(t, m.View(), "localhost:8080")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Update(shared.SessionStartedMsg{Session: shared.Session{Epoch: 3, Ctx: ctx}})
	require.Contains(t, m.View(), "@unknown")

	m.Update(shared.SessionLoadedMsg{Epoch: 2, User: memoapi.User{Username: "stale"}})
	require.NotContains(t, m.View(), "@stale")

	m.Update(shared.SessionLoadedMsg{Epoch: 3, User: memoapi.User{Username: "alice"}})
	require.Contains(t, m.View(), "@alice")

	m.Update(shared.SessionEndedMsg{Reason: shared.EndReasonExpired})
	require.Contains(t, m.View(), "session expired")
	require.NotContains(t, m.View(), "@alice")
}
