package router

import (
	"regexp"
	"strings"

	"github.com/sandevgo/recall/internal/core"
)

// mentionMarkup matches <@U123> and <@U123|name>.
var mentionMarkup = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]*)?>`)

// ParseSegments splits a message body into text and mention segments.
// Empty text segments are dropped.
func ParseSegments(text string) []core.Segment {
	var segs []core.Segment
	last := 0
	for _, m := range mentionMarkup.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			segs = append(segs, core.TextSegment(text[last:m[0]]))
		}
		segs = append(segs, core.MentionSegment(text[m[2]:m[3]]))
		last = m[1]
	}
	if last < len(text) {
		segs = append(segs, core.TextSegment(text[last:]))
	}
	return segs
}

// plainText joins the text segments, leaving mentions out.
func plainText(segs []core.Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Kind == core.SegmentText {
			sb.WriteString(s.Text)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func mentions(segs []core.Segment, userID string) bool {
	for _, s := range segs {
		if s.Kind == core.SegmentMention && s.UserID == userID {
			return true
		}
	}
	return false
}
