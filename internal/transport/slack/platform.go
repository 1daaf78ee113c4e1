package slack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/conv"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/sandevgo/recall/pkg/retry"
	"github.com/slack-go/slack"
)

// Platform talks to the Slack Web API on the router's behalf.
type Platform struct {
	api     *slack.Client
	retrier *retry.Retrier
}

func NewPlatform(api *slack.Client, retrier *retry.Retrier) *Platform {
	if retrier == nil {
		retrier = retry.NewDefaultRetrier()
	}
	return &Platform{api: api, retrier: retrier}
}

// Identify returns the bot's own user id.
func (p *Platform) Identify(ctx context.Context) (string, error) {
	var resp *slack.AuthTestResponse
	err := p.retrier.Do(ctx, func() error {
		var err error
		resp, err = p.api.AuthTestContext(ctx)
		return classify(err)
	})
	if err != nil {
		return "", fmt.Errorf("auth.test failed: %w", err)
	}
	return resp.UserID, nil
}

// JoinChannel joins the public channel with the given name so the bot hears
// its messages.
func (p *Platform) JoinChannel(ctx context.Context, name string) (string, error) {
	params := &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Limit:           200,
		Types:           []string{"public_channel"},
	}
	for {
		var (
			channels []slack.Channel
			cursor   string
		)
		err := p.retrier.Do(ctx, func() error {
			var err error
			channels, cursor, err = p.api.GetConversationsContext(ctx, params)
			return classify(err)
		})
		if err != nil {
			return "", fmt.Errorf("failed to list channels: %w", err)
		}

		for _, ch := range channels {
			if ch.Name != name {
				continue
			}
			err := p.retrier.Do(ctx, func() error {
				_, _, _, err := p.api.JoinConversationContext(ctx, ch.ID)
				return classify(err)
			})
			if err != nil {
				return "", fmt.Errorf("failed to join #%s: %w", name, err)
			}
			log.FromCtx(ctx).Info().Str("channel", name).Str("channel_id", ch.ID).Msg("joined channel")
			return ch.ID, nil
		}

		if cursor == "" {
			return "", fmt.Errorf("channel #%s: %w", name, core.ErrNotFound)
		}
		params.Cursor = cursor
	}
}

func (p *Platform) ResolveUser(ctx context.Context, userID string) (core.UserProfile, error) {
	var user *slack.User
	err := p.retrier.Do(ctx, func() error {
		var err error
		user, err = p.api.GetUserInfoContext(ctx, userID)
		return classify(err)
	})
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("users.info %s: %w", userID, err)
	}
	return core.UserProfile{
		ID:          user.ID,
		Name:        user.Name,
		DisplayName: user.Profile.DisplayName,
	}, nil
}

// FetchThreadReplies returns every message of the thread, parent included,
// in posting order.
func (p *Platform) FetchThreadReplies(ctx context.Context, channel, threadID string) ([]core.ThreadMessage, error) {
	params := &slack.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: threadID,
		Limit:     200,
	}

	var out []core.ThreadMessage
	for {
		var (
			msgs    []slack.Message
			hasMore bool
			cursor  string
		)
		err := p.retrier.Do(ctx, func() error {
			var err error
			msgs, hasMore, cursor, err = p.api.GetConversationRepliesContext(ctx, params)
			return classify(err)
		})
		if err != nil {
			return nil, fmt.Errorf("conversations.replies %s/%s: %w", channel, threadID, err)
		}

		for _, m := range msgs {
			out = append(out, core.ThreadMessage{User: m.User, Text: m.Text})
		}
		if !hasMore || cursor == "" {
			return out, nil
		}
		params.Cursor = cursor
	}
}

// PostMessage posts markdown as Slack mrkdwn, into the thread when threadID
// is set.
func (p *Platform) PostMessage(ctx context.Context, channel, text, threadID string) error {
	opts := []slack.MsgOption{slack.MsgOptionText(conv.MarkdownToSlack([]byte(text)), false)}
	if threadID != "" {
		opts = append(opts, slack.MsgOptionTS(threadID))
	}

	err := p.retrier.Do(ctx, func() error {
		_, _, err := p.api.PostMessageContext(ctx, channel, opts...)
		return classify(err)
	})
	if err != nil {
		return fmt.Errorf("chat.postMessage %s: %w", channel, err)
	}
	return nil
}

// rateLimited exposes Slack's Retry-After hint to the retrier.
type rateLimited struct {
	err *slack.RateLimitedError
}

func (r rateLimited) Error() string             { return r.err.Error() }
func (r rateLimited) Unwrap() error             { return r.err }
func (r rateLimited) RetryAfter() time.Duration { return r.err.RetryAfter }

// classify maps Slack errors onto retry semantics. API-level errors such as
// channel_not_found never succeed on a second try.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var rl *slack.RateLimitedError
	if errors.As(err, &rl) {
		return rateLimited{err: rl}
	}
	var apiErr slack.SlackErrorResponse
	if errors.As(err, &apiErr) {
		return retry.Permanent(err)
	}
	return err
}

var _ core.Platform = (*Platform)(nil)
