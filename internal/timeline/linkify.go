package timeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentLink
)

// Segment is a piece of a message body. For links Text and Href are equal.
type Segment struct {
	Kind SegmentKind
	Text string
	Href string
}

var linkSchemes = []string{"http://", "https://"}

// Linkify splits body into literal and link segments. A link starts with
// http:// or https:// and runs until the next whitespace.
func Linkify(body string) []Segment {
	segments := make([]Segment, 0, 1)
	literalStart := 0

	for i := 0; i < len(body); {
		n := linkLength(body[i:])
		if n == 0 {
			_, size := utf8.DecodeRuneInString(body[i:])
			i += size
			continue
		}

		end := i + n
		if literalStart < i {
			segments = append(segments, Segment{Kind: SegmentText, Text: body[literalStart:i]})
		}

		link := body[i:end]
		segments = append(segments, Segment{Kind: SegmentLink, Text: link, Href: link})
		i = end
		literalStart = end
	}

	if literalStart < len(body) {
		segments = append(segments, Segment{Kind: SegmentText, Text: body[literalStart:]})
	}

	return segments
}

// linkLength reports the byte length of the link at the start of s, or 0
// if s does not start with a scheme followed by at least one non-space rune.
func linkLength(s string) int {
	for _, scheme := range linkSchemes {
		if !strings.HasPrefix(s, scheme) {
			continue
		}

		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			end = len(s)
		}

		if end == len(scheme) {
			return 0
		}

		return end
	}

	return 0
}
