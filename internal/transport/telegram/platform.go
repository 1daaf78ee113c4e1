package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/retry"
)

// Platform implements core.Platform on top of the Bot API and the bot's own
// message history.
type Platform struct {
	api     api
	sender  *sender
	history *history
}

func NewPlatform(api api, historyItems int64, retrier *retry.Retrier) (*Platform, error) {
	h, err := newHistory(historyItems)
	if err != nil {
		return nil, err
	}
	if retrier == nil {
		retrier = retry.NewDefaultRetrier()
	}
	return &Platform{
		api:     api,
		sender:  newSender(api, retrier),
		history: h,
	}, nil
}

func (p *Platform) ResolveUser(ctx context.Context, userID string) (core.UserProfile, error) {
	if profile, ok := p.history.user(userID); ok {
		return profile, nil
	}

	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("bad telegram user id %q: %w", userID, err)
	}
	chat, err := p.api.ChatByID(id)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("getChat %s: %w", userID, err)
	}

	display := chat.FirstName
	if chat.LastName != "" {
		display += " " + chat.LastName
	}
	profile := core.UserProfile{ID: userID, Name: chat.Username, DisplayName: display}
	p.history.rememberUser(profile)
	return profile, nil
}

// FetchThreadReplies rebuilds the reply chain ending at threadID, which is
// the id of the newest message in the chain.
func (p *Platform) FetchThreadReplies(ctx context.Context, channel, threadID string) ([]core.ThreadMessage, error) {
	chatID, err := strconv.ParseInt(channel, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad telegram chat id %q: %w", channel, err)
	}
	msgID, err := strconv.Atoi(threadID)
	if err != nil {
		return nil, fmt.Errorf("bad telegram message id %q: %w", threadID, err)
	}
	return p.history.chain(chatID, msgID), nil
}

func (p *Platform) PostMessage(ctx context.Context, channel, text, threadID string) error {
	chatID, err := strconv.ParseInt(channel, 10, 64)
	if err != nil {
		return fmt.Errorf("bad telegram chat id %q: %w", channel, err)
	}
	replyTo := 0
	if threadID != "" {
		if replyTo, err = strconv.Atoi(threadID); err != nil {
			return fmt.Errorf("bad telegram message id %q: %w", threadID, err)
		}
	}

	sent, err := p.sender.sendMarkdown(ctx, chatFor(chatID), text, replyTo)
	for _, m := range sent {
		if m == nil || m.Sender == nil {
			continue
		}
		p.history.remember(chatID, m.ID, seenMessage{
			User:    strconv.FormatInt(m.Sender.ID, 10),
			Text:    m.Text,
			ReplyTo: replyTo,
		})
	}
	p.history.wait()
	if err != nil {
		return fmt.Errorf("sendMessage %s: %w", channel, err)
	}
	return nil
}

func (p *Platform) Close() {
	p.history.close()
}

var _ core.Platform = (*Platform)(nil)
