package timeline

// Composer holds the new-message draft and gates its submission.
type Composer struct {
	store  *Store
	anchor *Anchor

	draft      string
	submitting bool
	err        string
}

func NewComposer(store *Store, anchor *Anchor) *Composer {
	return &Composer{
		store:  store,
		anchor: anchor,
	}
}

func (c *Composer) Draft() string {
	return c.draft
}

func (c *Composer) Submitting() bool {
	return c.submitting
}

func (c *Composer) Err() string {
	return c.err
}

// SetDraft is ignored while a submission is in flight.
func (c *Composer) SetDraft(draft string) {
	if c.submitting {
		return
	}

	c.draft = draft
}

func (c *Composer) CanSubmit() bool {
	return !c.submitting && c.draft != ""
}

// BeginSubmit returns the body to send, or false if submission is gated.
func (c *Composer) BeginSubmit() (string, bool) {
	if !c.CanSubmit() {
		return "", false
	}

	c.submitting = true
	c.err = ""

	return c.draft, true
}

// SubmitSucceeded appends the server's message and requests a scroll.
func (c *Composer) SubmitSucceeded(created Message) {
	c.store.Append(created)
	c.anchor.Sent()
	c.draft = ""
	c.submitting = false
}

func (c *Composer) SubmitFailed(errMsg string) {
	c.submitting = false
	c.err = errMsg
}

func (c *Composer) Reset() {
	c.draft = ""
	c.submitting = false
	c.err = ""
}
