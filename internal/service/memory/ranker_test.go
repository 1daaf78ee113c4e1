package memory

import (
	"testing"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/stretchr/testify/assert"
)

func retrieved(text, when string) core.RetrievedNode {
	return core.RetrievedNode{
		Node: core.Node{ID: core.NodeID(text), Text: text, Metadata: core.Metadata{When: when}},
	}
}

func texts(nodes []core.RetrievedNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text
	}
	return out
}

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		in   []core.RetrievedNode
		topK int
		want []string
	}{
		{
			name: "newer message first",
			in: []core.RetrievedNode{
				retrieved("Molly is a cat", "2024-01-01 10:00:00"),
				retrieved("Doug is a dog", "2024-01-02 10:00:00"),
			},
			topK: 2,
			want: []string{"Doug is a dog", "Molly is a cat"},
		},
		{
			name: "truncates to topK",
			in: []core.RetrievedNode{
				retrieved("a", "2024-01-01 10:00:00"),
				retrieved("b", "2024-01-03 10:00:00"),
				retrieved("c", "2024-01-02 10:00:00"),
			},
			topK: 2,
			want: []string{"b", "c"},
		},
		{
			name: "equal timestamps keep input order",
			in: []core.RetrievedNode{
				retrieved("first", "2024-01-01 10:00:00"),
				retrieved("second", "2024-01-01 10:00:00"),
				retrieved("newest", "2024-01-01 11:00:00"),
				retrieved("third", "2024-01-01 10:00:00"),
			},
			topK: 10,
			want: []string{"newest", "first", "second", "third"},
		},
		{
			name: "missing or unparseable when is excluded",
			in: []core.RetrievedNode{
				retrieved("no date", ""),
				retrieved("dated", "2024-01-01 10:00:00"),
				retrieved("garbage", "last tuesday"),
			},
			topK: 10,
			want: []string{"dated"},
		},
		{
			name: "rfc3339 accepted",
			in: []core.RetrievedNode{
				retrieved("old", "2024-01-01T10:00:00Z"),
				retrieved("new", "2024-01-01 12:00:00"),
			},
			topK: 10,
			want: []string{"new", "old"},
		},
		{
			name: "zero topK",
			in:   []core.RetrievedNode{retrieved("a", "2024-01-01 10:00:00")},
			topK: 0,
			want: []string{},
		},
		{
			name: "empty input",
			topK: 5,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.in, core.MetaWhen, time.UTC, tt.topK)
			assert.LessOrEqual(t, len(got), tt.topK)
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestRank_CustomDateKey(t *testing.T) {
	a := core.RetrievedNode{Node: core.Node{Text: "a", Metadata: core.Metadata{
		When:  "2024-01-05 00:00:00",
		Extra: map[string]string{"edited": "2024-01-01 00:00:00"},
	}}}
	b := core.RetrievedNode{Node: core.Node{Text: "b", Metadata: core.Metadata{
		When:  "2024-01-01 00:00:00",
		Extra: map[string]string{"edited": "2024-01-09 00:00:00"},
	}}}

	got := Rank([]core.RetrievedNode{a, b}, "edited", nil, 2)
	assert.Equal(t, []string{"b", "a"}, texts(got))
}

func TestRank_ZonelessTimestampsUseLocation(t *testing.T) {
	berlin := time.FixedZone("CET", 60*60)

	// 10:30 CET is 09:30 UTC, older than the zoned 10:00 UTC
	local := retrieved("local", "2024-01-01 10:30:00")
	zoned := retrieved("zoned", "2024-01-01T10:00:00Z")

	got := Rank([]core.RetrievedNode{local, zoned}, core.MetaWhen, berlin, 2)
	assert.Equal(t, []string{"zoned", "local"}, texts(got))

	got = Rank([]core.RetrievedNode{local, zoned}, core.MetaWhen, time.UTC, 2)
	assert.Equal(t, []string{"local", "zoned"}, texts(got))
}
