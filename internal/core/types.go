package core

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	RecallName          = "Recall"
	RecallUserAgent     = "Recall-Bot/0.1"
	RecallRepositoryURL = "https://github.com/sandevgo/recall"
	RecallVersion       = "0.1.0"
)

// WhenLayout is the timestamp format stored in Metadata.When.
const WhenLayout = time.DateTime

// Recognized metadata keys.
const (
	MetaWho  = "who"
	MetaWhen = "when"
)

type NodeID string

func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

func (id NodeID) String() string {
	return string(id)
}

// Metadata carries the recognized node attributes plus any extra keys.
type Metadata struct {
	Who   string            `json:"who,omitempty"`
	When  string            `json:"when,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Get looks a value up by its metadata key.
func (m Metadata) Get(key string) (string, bool) {
	switch key {
	case MetaWho:
		return m.Who, m.Who != ""
	case MetaWhen:
		return m.When, m.When != ""
	}
	v, ok := m.Extra[key]
	return v, ok && v != ""
}

// Flatten returns all non-empty entries as a plain map.
func (m Metadata) Flatten() map[string]string {
	out := make(map[string]string, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.Who != "" {
		out[MetaWho] = m.Who
	}
	if m.When != "" {
		out[MetaWhen] = m.When
	}
	return out
}

// MetadataFromMap is the inverse of Flatten. Keys listed in skip are dropped.
func MetadataFromMap(in map[string]string, skip ...string) Metadata {
	var m Metadata
	for k, v := range in {
		switch k {
		case MetaWho:
			m.Who = v
		case MetaWhen:
			m.When = v
		default:
			if slices.Contains(skip, k) {
				continue
			}
			if m.Extra == nil {
				m.Extra = make(map[string]string)
			}
			m.Extra[k] = v
		}
	}
	return m
}

// Node is a single stored chat message. It is never mutated after creation.
type Node struct {
	ID       NodeID   `json:"id"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
	// Previous points at the node ingested right before this one, if any.
	Previous NodeID `json:"previous,omitempty"`
}

type RetrievedNode struct {
	Node
	Score float32 `json:"score"`
}

// ReplyLine is one message of a thread transcript.
type ReplyLine struct {
	Speaker string
	Text    string
}

// ReplyChain is a thread's messages in platform order.
type ReplyChain []ReplyLine

// ContextBlock is the assembled grounding for one question.
type ContextBlock struct {
	Nodes   []RetrievedNode
	Replies ReplyChain
	Text    string
}

// Answer is the synthesizer output together with the nodes it was grounded on.
type Answer struct {
	Text  string
	Nodes []RetrievedNode
}
