package memory

import (
	"slices"
	"time"

	"github.com/sandevgo/recall/internal/core"
)

var whenLayouts = []string{
	core.WhenLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// parseWhen reads zoneless timestamps in loc. Values with an offset keep it.
func parseWhen(v string, loc *time.Location) (time.Time, bool) {
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type dated struct {
	node core.RetrievedNode
	at   time.Time
}

// Rank orders candidates by the timestamp under dateKey, newest first, and
// keeps at most topK. Candidates without a parseable timestamp are dropped.
// Equal timestamps keep their input order. Timestamps without a zone are
// taken to be in loc, UTC when loc is nil.
func Rank(candidates []core.RetrievedNode, dateKey string, loc *time.Location, topK int) []core.RetrievedNode {
	if topK <= 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	items := make([]dated, 0, len(candidates))
	for _, c := range candidates {
		v, ok := c.Metadata.Get(dateKey)
		if !ok {
			continue
		}
		at, ok := parseWhen(v, loc)
		if !ok {
			continue
		}
		items = append(items, dated{node: c, at: at})
	}

	slices.SortStableFunc(items, func(a, b dated) int {
		return b.at.Compare(a.at)
	})

	if len(items) > topK {
		items = items[:topK]
	}

	out := make([]core.RetrievedNode, len(items))
	for i, it := range items {
		out[i] = it.node
	}
	return out
}
