package timeline

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	tl "github.com/ras0q/lazymemo/internal/timeline"
)

type timerFiredMsg func()

// Scheduler runs timer callbacks inside the Update loop: a fired timer
// only queues its callback, and Listen delivers it as a message.
type Scheduler struct {
	fired chan func()
}

var _ tl.Scheduler = (*Scheduler)(nil)

func NewScheduler() *Scheduler {
	return &Scheduler{
		fired: make(chan func(), 16),
	}
}

// AfterFunc implements timeline.Scheduler.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) tl.Timer {
	return time.AfterFunc(d, func() {
		s.fired <- f
	})
}

// Listen waits for the next fired callback. It must be re-issued after
// every timerFiredMsg.
func (s *Scheduler) Listen() tea.Cmd {
	return func() tea.Msg {
		return timerFiredMsg(<-s.fired)
	}
}
