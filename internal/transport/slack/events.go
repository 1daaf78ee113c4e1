package slack

import (
	"encoding/json"
	"fmt"

	"github.com/sandevgo/recall/internal/core"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// messageEvent is the subset of a message event the router needs. Decoded
// by hand because slackevents.MessageEvent drops rich text blocks.
type messageEvent struct {
	Type         string       `json:"type"`
	Subtype      string       `json:"subtype"`
	User         string       `json:"user"`
	Text         string       `json:"text"`
	TS           string       `json:"ts"`
	ThreadTS     string       `json:"thread_ts"`
	ParentUserID string       `json:"parent_user_id"`
	Channel      string       `json:"channel"`
	Blocks       slack.Blocks `json:"blocks"`
}

// Edits, deletions, joins and bot posts carry subtypes; only plain messages
// are remembered or answered.
var acceptedSubtypes = map[string]bool{
	"":                 true,
	"thread_broadcast": true,
	"file_share":       true,
}

// decodeMessage turns an Events API callback into an inbound message. ok is
// false for events the router has no use for.
func decodeMessage(evt slackevents.EventsAPIEvent) (msg core.InboundMessage, ok bool, err error) {
	if evt.Type != slackevents.CallbackEvent {
		return msg, false, nil
	}
	cb, isCallback := evt.Data.(*slackevents.EventsAPICallbackEvent)
	if !isCallback || cb.InnerEvent == nil {
		return msg, false, nil
	}

	var ev messageEvent
	if err := json.Unmarshal(*cb.InnerEvent, &ev); err != nil {
		return msg, false, fmt.Errorf("%w: %w", core.ErrMalformedMessage, err)
	}
	if ev.Type != string(slackevents.Message) || !acceptedSubtypes[ev.Subtype] {
		return msg, false, nil
	}

	msg = core.InboundMessage{
		Text:         ev.Text,
		User:         ev.User,
		TS:           ev.TS,
		Channel:      ev.Channel,
		ParentUserID: ev.ParentUserID,
		Segments:     richTextSegments(ev.Blocks),
	}
	// A thread parent carries its own ts as thread_ts.
	if ev.ThreadTS != "" && ev.ThreadTS != ev.TS {
		msg.ThreadID = ev.ThreadTS
	}
	return msg, true, nil
}

// richTextSegments flattens rich_text blocks into segments. Returns nil when
// the message has no rich text, so the router falls back to the text field.
func richTextSegments(blocks slack.Blocks) []core.Segment {
	var segs []core.Segment
	for _, b := range blocks.BlockSet {
		rt, ok := b.(*slack.RichTextBlock)
		if !ok {
			continue
		}
		for _, el := range rt.Elements {
			segs = appendElement(segs, el)
		}
	}
	return segs
}

func appendElement(segs []core.Segment, el slack.RichTextElement) []core.Segment {
	switch e := el.(type) {
	case *slack.RichTextSection:
		return appendSection(segs, e.Elements)
	case *slack.RichTextQuote:
		return appendSection(segs, e.Elements)
	case *slack.RichTextPreformatted:
		return appendSection(segs, e.Elements)
	case *slack.RichTextList:
		for _, item := range e.Elements {
			segs = appendElement(segs, item)
		}
	}
	return segs
}

func appendSection(segs []core.Segment, elements []slack.RichTextSectionElement) []core.Segment {
	if len(segs) > 0 {
		segs = append(segs, core.TextSegment("\n"))
	}
	for _, el := range elements {
		switch e := el.(type) {
		case *slack.RichTextSectionTextElement:
			segs = append(segs, core.TextSegment(e.Text))
		case *slack.RichTextSectionUserElement:
			segs = append(segs, core.MentionSegment(e.UserID))
		case *slack.RichTextSectionLinkElement:
			if e.Text != "" {
				segs = append(segs, core.TextSegment(e.Text))
			} else {
				segs = append(segs, core.TextSegment(e.URL))
			}
		case *slack.RichTextSectionChannelElement:
			segs = append(segs, core.TextSegment("#"+e.ChannelID))
		case *slack.RichTextSectionEmojiElement:
			segs = append(segs, core.TextSegment(":"+e.Name+":"))
		}
	}
	return segs
}
