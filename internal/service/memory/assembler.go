package memory

import (
	"fmt"
	"strings"

	"github.com/sandevgo/recall/internal/core"
)

const contextDelimiter = "---------------------"

// Assemble renders ranked nodes as who/when/text records, most recent first,
// followed by the reply chain if there is one. Nodes are not re-ranked.
func Assemble(nodes []core.RetrievedNode, replies core.ReplyChain) core.ContextBlock {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Below are up to %d chat messages, each tagged with who sent it ('who:') and when ('when:'). "+
		"They are listed from most recent to oldest. When messages disagree, trust the more recent one.\n", len(nodes))
	sb.WriteString(contextDelimiter + "\n")
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "who: %s\n", n.Metadata.Who)
		fmt.Fprintf(&sb, "when: %s\n", n.Metadata.When)
		sb.WriteString(n.Text + "\n")
	}
	sb.WriteString(contextDelimiter + "\n")

	if len(replies) > 0 {
		sb.WriteString("\nIn addition to the messages above, the question has been discussed in this chain of replies:\n")
		for _, r := range replies {
			fmt.Fprintf(&sb, "%s: %s\n", r.Speaker, r.Text)
		}
	}

	return core.ContextBlock{
		Nodes:   nodes,
		Replies: replies,
		Text:    sb.String(),
	}
}
