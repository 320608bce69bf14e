package timeline

import "time"

// DayLabelLayout formats separator labels. It does not depend on locale.
const DayLabelLayout = "2006/01/02"

// Zone is the single location used both to group messages by day and to
// format separator labels and message times.
var Zone = time.UTC

type ItemKind int

const (
	ItemSeparator ItemKind = iota
	ItemMessage
)

// Item is a derived render item: either a day separator or a message.
type Item struct {
	Kind ItemKind

	// Separator fields
	Label   string
	DateKey string

	// Message fields
	Message Message
}

// DateKey returns the calendar day of m in Zone. Unparseable timestamps
// fall back to the raw CreatedAt string.
func DateKey(m Message) string {
	t, ok := m.Time()
	if !ok {
		return m.CreatedAt
	}

	return t.In(Zone).Format(DayLabelLayout)
}

// Project groups messages into days. A separator is emitted before the
// first message and before every message whose day differs from the
// previous one. Order of messages is preserved.
func Project(messages []Message) []Item {
	items := make([]Item, 0, len(messages)+1)

	prevKey := ""
	for i, message := range messages {
		key := DateKey(message)
		if i == 0 || key != prevKey {
			items = append(items, Item{
				Kind:    ItemSeparator,
				Label:   key,
				DateKey: key,
			})
		}

		items = append(items, Item{
			Kind:    ItemMessage,
			Message: message,
		})
		prevKey = key
	}

	return items
}
