package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandevgo/recall/pkg/conv"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/sandevgo/recall/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

// api is the slice of *tele.Bot the platform needs.
type api interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	ChatByID(id int64) (*tele.Chat, error)
}

type sender struct {
	api     api
	retrier *retry.Retrier
}

func newSender(api api, retrier *retry.Retrier) *sender {
	return &sender{api: api, retrier: retrier}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if
// needed. The first chunk replies to replyTo when set. Sent messages are
// returned so they can join the history.
func (s *sender) sendMarkdown(ctx context.Context, chat *tele.Chat, md string, replyTo int) ([]*tele.Message, error) {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil, nil
	}

	var sent []*tele.Message
	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
		if replyTo != 0 && i == 0 {
			opts.ReplyTo = &tele.Message{ID: replyTo, Chat: chat}
		}

		var msg *tele.Message
		err := s.retrier.Do(ctx, func() error {
			var err error
			msg, err = s.api.Send(chat, chunk, opts)
			return classify(err)
		})
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return sent, err
		}
		sent = append(sent, msg)
	}
	return sent, nil
}

// floodWait exposes Telegram's retry_after to the retrier.
type floodWait struct {
	err   error
	after time.Duration
}

func (f floodWait) Error() string             { return f.err.Error() }
func (f floodWait) Unwrap() error             { return f.err }
func (f floodWait) RetryAfter() time.Duration { return f.after }

func classify(err error) error {
	if err == nil {
		return nil
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return floodWait{err: err, after: time.Duration(flood.RetryAfter) * time.Second}
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return retry.Permanent(err)
	}
	return err
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Try to find a good break point (newline) in the second half of the chunk
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
