package telegram

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/sandevgo/recall/internal/core"
	tele "gopkg.in/telebot.v3"
)

// segments splits a message into text and mention segments using its
// entities. Entity offsets count UTF-16 code units.
func segments(text string, entities tele.Entities, botID, botUsername string) []core.Segment {
	units := utf16.Encode([]rune(text))

	mentions := make([]tele.MessageEntity, 0, len(entities))
	for _, e := range entities {
		if e.Type == tele.EntityMention || e.Type == tele.EntityTMention {
			mentions = append(mentions, e)
		}
	}
	sort.Slice(mentions, func(i, j int) bool { return mentions[i].Offset < mentions[j].Offset })

	var segs []core.Segment
	last := 0
	for _, e := range mentions {
		start, end := e.Offset, e.Offset+e.Length
		if start < last || end > len(units) {
			continue
		}
		if start > last {
			segs = append(segs, core.TextSegment(string(utf16.Decode(units[last:start]))))
		}
		raw := string(utf16.Decode(units[start:end]))
		switch {
		case e.Type == tele.EntityTMention && e.User != nil:
			segs = append(segs, core.MentionSegment(strconv.FormatInt(e.User.ID, 10)))
		case botUsername != "" && strings.EqualFold(raw, "@"+botUsername):
			segs = append(segs, core.MentionSegment(botID))
		default:
			// @username of someone the bot can't map to an id
			segs = append(segs, core.TextSegment(raw))
		}
		last = end
	}
	if last < len(units) {
		segs = append(segs, core.TextSegment(string(utf16.Decode(units[last:]))))
	}
	return segs
}

func profileOf(u *tele.User) core.UserProfile {
	display := u.FirstName
	if u.LastName != "" {
		display += " " + u.LastName
	}
	return core.UserProfile{
		ID:          strconv.FormatInt(u.ID, 10),
		Name:        u.Username,
		DisplayName: display,
	}
}
