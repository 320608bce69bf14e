package timeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkify(t *testing.T) {
	text := func(s string) Segment { return Segment{Kind: SegmentText, Text: s} }
	link := func(s string) Segment { return Segment{Kind: SegmentLink, Text: s, Href: s} }

	tests := []struct {
		name string
		body string
		want []Segment
	}{
		{
			name: "link in the middle",
			body: "hello https://example.com world",
			want: []Segment{text("hello "), link("https://example.com"), text(" world")},
		},
		{
			name: "no links",
			body: "just text\n  with spaces",
			want: []Segment{text("just text\n  with spaces")},
		},
		{
			name: "only a link",
			body: "http://example.com/a?b=c",
			want: []Segment{link("http://example.com/a?b=c")},
		},
		{
			name: "adjacent links separated by a newline",
			body: "https://a.example\nhttps://b.example",
			want: []Segment{link("https://a.example"), text("\n"), link("https://b.example")},
		},
		{
			name: "scheme without host is literal",
			body: "see http:// later",
			want: []Segment{text("see http:// later")},
		},
		{
			name: "other schemes are literal",
			body: "ftp://example.com",
			want: []Segment{text("ftp://example.com")},
		},
		{
			name: "multibyte text around a link",
			body: "見て https://example.com/日本 ね",
			want: []Segment{text("見て "), link("https://example.com/日本"), text(" ね")},
		},
		{
			name: "empty body",
			body: "",
			want: []Segment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linkify(tt.body)
			require.Equal(t, tt.want, got)

			for _, seg := range got {
				require.NotEmpty(t, seg.Text)
			}
		})
	}
}
