package timeline

import "time"

type MessageID int64

// Message is a single timeline entry as returned by the backend.
// CreatedAt is kept verbatim so that an unparseable timestamp can still be
// displayed.
type Message struct {
	ID        MessageID
	Body      string
	CreatedAt string
}

// Time parses CreatedAt as RFC 3339.
func (m Message) Time() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, m.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
