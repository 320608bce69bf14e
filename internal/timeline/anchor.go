package timeline

type Trigger int

const (
	TriggerNone Trigger = iota
	// TriggerInitial is the first non-empty load after activation.
	TriggerInitial
	// TriggerPostSend is a message appended by the local create action.
	TriggerPostSend
)

func (t Trigger) String() string {
	switch t {
	case TriggerNone:
		return "none"
	case TriggerInitial:
		return "initial"
	case TriggerPostSend:
		return "post-send"
	default:
		return "unknown"
	}
}

// Anchor decides when the newest item must be scrolled into view. Only
// the two triggers above ever request a scroll, and each request is
// consumed exactly once.
type Anchor struct {
	active       bool
	awaitInitial bool
	pending      Trigger
}

func NewAnchor() *Anchor {
	return &Anchor{}
}

// Activate starts a new session; the next non-empty load will trigger.
func (a *Anchor) Activate() {
	a.active = true
	a.awaitInitial = true
	a.pending = TriggerNone
}

func (a *Anchor) Deactivate() {
	a.active = false
	a.awaitInitial = false
	a.pending = TriggerNone
}

// Loaded reports a successful load of n messages.
func (a *Anchor) Loaded(n int) {
	if !a.active || !a.awaitInitial || n == 0 {
		return
	}

	a.awaitInitial = false
	a.pending = TriggerInitial
}

// Sent reports a message appended by the local client.
func (a *Anchor) Sent() {
	if !a.active {
		return
	}

	a.awaitInitial = false
	a.pending = TriggerPostSend
}

func (a *Anchor) Pending() Trigger {
	return a.pending
}

// Consume returns the pending trigger once the newest item has been
// rendered, clearing it.
func (a *Anchor) Consume(newestRendered bool) (Trigger, bool) {
	if a.pending == TriggerNone || !newestRendered {
		return TriggerNone, false
	}

	t := a.pending
	a.pending = TriggerNone

	return t, true
}
