package timeline

import "time"

// CopyFeedbackDuration is how long the "copied" indicator stays visible.
const CopyFeedbackDuration = 2000 * time.Millisecond

type Mode int

const (
	ModeViewing Mode = iota
	ModeMenuOpen
	ModeEditing
	ModeConfirmingDelete
)

func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeMenuOpen:
		return "menu"
	case ModeEditing:
		return "editing"
	case ModeConfirmingDelete:
		return "confirming-delete"
	default:
		return "unknown"
	}
}

// EditSession is the in-progress edit of a single message. At most one
// exists per Controller.
type EditSession struct {
	MessageID MessageID
	Draft     string
	Pending   bool
	Err       string
}

// ItemState is the transient UI state of one message.
type ItemState struct {
	Mode          Mode
	DeletePending bool
	DeleteErr     string
	Copied        bool
	CopyErr       string

	// mode to return to when a delete confirmation is declined
	beforeConfirm Mode
	copyTimer     Timer
	copyGen       uint64
}

type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. Implementations must call f on the goroutine
// that owns the Controller.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Controller owns the per-message interaction state, keyed by message id.
// It is not safe for concurrent use.
type Controller struct {
	store     *Store
	scheduler Scheduler
	states    map[MessageID]*ItemState
	edit      *EditSession
}

func NewController(store *Store, scheduler Scheduler) *Controller {
	return &Controller{
		store:     store,
		scheduler: scheduler,
		states:    make(map[MessageID]*ItemState),
	}
}

// State returns a snapshot of the state of id. Unknown ids are Viewing.
func (c *Controller) State(id MessageID) ItemState {
	st, ok := c.states[id]
	if !ok {
		return ItemState{}
	}

	snapshot := *st
	snapshot.copyTimer = nil

	return snapshot
}

// Edit returns the live edit session, if any.
func (c *Controller) Edit() (EditSession, bool) {
	if c.edit == nil {
		return EditSession{}, false
	}

	return *c.edit, true
}

func (c *Controller) OpenMenu(id MessageID) bool {
	st, ok := c.act(id)
	if !ok || st.Mode != ModeViewing {
		return false
	}

	for otherID, other := range c.states {
		if otherID != id && other.Mode == ModeMenuOpen {
			other.Mode = ModeViewing
		}
	}

	st.Mode = ModeMenuOpen

	return true
}

func (c *Controller) CloseMenu(id MessageID) bool {
	st, ok := c.act(id)
	if !ok || st.Mode != ModeMenuOpen {
		return false
	}

	st.Mode = ModeViewing

	return true
}

func (c *Controller) ToggleMenu(id MessageID) bool {
	if c.State(id).Mode == ModeMenuOpen {
		return c.CloseMenu(id)
	}

	return c.OpenMenu(id)
}

// StartEdit opens an edit session on id from its open menu. An idle
// session on another message is discarded; a pending one blocks.
func (c *Controller) StartEdit(id MessageID) bool {
	st, ok := c.act(id)
	if !ok || st.Mode != ModeMenuOpen || st.DeletePending {
		return false
	}

	message, ok := c.store.Get(id)
	if !ok {
		return false
	}

	if c.edit != nil {
		if c.edit.Pending {
			return false
		}

		c.endEdit()
	}

	c.edit = &EditSession{
		MessageID: id,
		Draft:     message.Body,
	}
	st.Mode = ModeEditing

	return true
}

func (c *Controller) SetDraft(id MessageID, draft string) bool {
	if !c.editing(id) || c.edit.Pending {
		return false
	}

	c.edit.Draft = draft

	return true
}

// BeginSave marks the session on id as pending and returns the draft to
// send. It is a no-op for an empty draft or while a save is pending.
func (c *Controller) BeginSave(id MessageID) (string, bool) {
	if !c.editing(id) {
		return "", false
	}

	c.act(id)

	if c.edit.Pending || c.edit.Draft == "" {
		return "", false
	}

	c.edit.Pending = true
	c.edit.Err = ""

	return c.edit.Draft, true
}

// SaveSucceeded applies the server's copy of the message and ends the
// session. The local draft is never shown as the body.
func (c *Controller) SaveSucceeded(id MessageID, saved Message) {
	c.store.Replace(saved)

	if c.editing(id) {
		c.endEdit()
	}
}

// SaveFailed keeps the draft as typed and records the error.
func (c *Controller) SaveFailed(id MessageID, errMsg string) {
	if !c.editing(id) {
		return
	}

	c.edit.Pending = false
	c.edit.Err = errMsg
}

func (c *Controller) CancelEdit(id MessageID) bool {
	if !c.editing(id) || c.edit.Pending {
		return false
	}

	c.act(id)
	c.endEdit()

	return true
}

// RequestDelete asks for confirmation. No request is authorised yet.
func (c *Controller) RequestDelete(id MessageID) bool {
	st, ok := c.act(id)
	if !ok || st.DeletePending {
		return false
	}

	if st.Mode != ModeViewing && st.Mode != ModeMenuOpen {
		return false
	}

	st.beforeConfirm = st.Mode
	st.Mode = ModeConfirmingDelete
	st.DeleteErr = ""

	return true
}

func (c *Controller) DeclineDelete(id MessageID) bool {
	st, ok := c.act(id)
	if !ok || st.Mode != ModeConfirmingDelete {
		return false
	}

	st.Mode = st.beforeConfirm

	return true
}

// ConfirmDelete authorises exactly one delete request for id.
func (c *Controller) ConfirmDelete(id MessageID) bool {
	st, ok := c.act(id)
	if !ok || st.Mode != ModeConfirmingDelete || st.DeletePending {
		return false
	}

	st.Mode = ModeViewing
	st.DeletePending = true

	return true
}

// RetryDelete resends a delete that failed, without asking again.
func (c *Controller) RetryDelete(id MessageID) bool {
	st, ok := c.act(id)
	if !ok || st.DeletePending || st.DeleteErr == "" {
		return false
	}

	st.DeleteErr = ""
	st.DeletePending = true

	return true
}

func (c *Controller) DeleteSucceeded(id MessageID) {
	c.store.Remove(id)
	c.Forget(id)
}

func (c *Controller) DeleteFailed(id MessageID, errMsg string) {
	st, ok := c.states[id]
	if !ok {
		return
	}

	st.DeletePending = false
	st.DeleteErr = errMsg
}

// CopySucceeded shows the copied indicator for CopyFeedbackDuration,
// restarting the duration if it is already shown.
func (c *Controller) CopySucceeded(id MessageID) {
	st, ok := c.act(id)
	if !ok {
		return
	}

	if st.copyTimer != nil {
		st.copyTimer.Stop()
	}

	st.copyGen++
	gen := st.copyGen
	st.Copied = true
	st.copyTimer = c.scheduler.AfterFunc(CopyFeedbackDuration, func() {
		c.expireCopy(id, gen)
	})
}

// CopyFailed shows err until the next action on id.
func (c *Controller) CopyFailed(id MessageID, errMsg string) {
	st, ok := c.act(id)
	if !ok {
		return
	}

	st.CopyErr = errMsg
}

// Forget drops all state of id, stopping its timer and ending its edit
// session.
func (c *Controller) Forget(id MessageID) {
	if st, ok := c.states[id]; ok {
		if st.copyTimer != nil {
			st.copyTimer.Stop()
		}

		delete(c.states, id)
	}

	if c.edit != nil && c.edit.MessageID == id {
		c.edit = nil
	}
}

// Prune forgets every id no longer present in the store.
func (c *Controller) Prune() {
	for id := range c.states {
		if !c.store.Contains(id) {
			c.Forget(id)
		}
	}

	if c.edit != nil && !c.store.Contains(c.edit.MessageID) {
		c.edit = nil
	}
}

// Reset forgets everything.
func (c *Controller) Reset() {
	for id := range c.states {
		c.Forget(id)
	}

	c.edit = nil
}

func (c *Controller) expireCopy(id MessageID, gen uint64) {
	st, ok := c.states[id]
	if !ok || st.copyGen != gen {
		return
	}

	st.Copied = false
	st.copyTimer = nil
}

// act returns the state of id for a user action, creating it on first use.
// Any pending copy error is dismissed.
func (c *Controller) act(id MessageID) (*ItemState, bool) {
	if !c.store.Contains(id) {
		return nil, false
	}

	st, ok := c.states[id]
	if !ok {
		st = &ItemState{}
		c.states[id] = st
	}

	st.CopyErr = ""

	return st, true
}

func (c *Controller) editing(id MessageID) bool {
	return c.edit != nil && c.edit.MessageID == id
}

func (c *Controller) endEdit() {
	if st, ok := c.states[c.edit.MessageID]; ok && st.Mode == ModeEditing {
		st.Mode = ModeViewing
	}

	c.edit = nil
}
