package router

import (
	"github.com/sandevgo/recall/internal/core"
)

type Classification struct {
	Kind core.MessageKind
	// Query is the question with bot mentions stripped. Empty for ordinary messages.
	Query    string
	Segments []core.Segment
}

// Classify decides what to do with a message. A message that both mentions
// the bot and replies in a bot thread is treated as a threaded reply, and
// ErrClassificationAmbiguous is returned alongside for the caller to log.
func Classify(msg core.InboundMessage, botID string) (Classification, error) {
	segs := msg.Segments
	if segs == nil {
		segs = ParseSegments(msg.Text)
	}

	mentioned := botID != "" && mentions(segs, botID)
	threaded := msg.ThreadID != "" && botID != "" && msg.ParentUserID == botID

	c := Classification{Kind: core.KindOrdinary, Segments: segs}
	switch {
	case threaded:
		c.Kind = core.KindThreadedReply
		c.Query = plainText(segs)
		if mentioned {
			return c, core.ErrClassificationAmbiguous
		}
	case mentioned:
		c.Kind = core.KindDirectQuestion
		c.Query = plainText(segs)
	}
	return c, nil
}
