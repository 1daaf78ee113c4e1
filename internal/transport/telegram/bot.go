package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Submitter hands a message off for asynchronous processing.
type Submitter interface {
	Submit(ctx context.Context, msg core.InboundMessage) error
}

type Bot struct {
	bot      *tele.Bot
	platform *Platform
	submit   Submitter
	botID    string
}

func NewTeleBot(cfg *config.TelegramConfig) (*tele.Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return b, nil
}

// BotID is the bot's own user id as the router sees it.
func BotID(b *tele.Bot) string {
	if b.Me == nil {
		return ""
	}
	return strconv.FormatInt(b.Me.ID, 10)
}

func NewBot(ctx context.Context, b *tele.Bot, platform *Platform, submit Submitter) *Bot {
	bot := &Bot{
		bot:      b,
		platform: platform,
		submit:   submit,
		botID:    BotID(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot_id", b.botID).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) Name() string {
	return "telegram"
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx, ok := c.Get(baseContextKey).(context.Context)
	if !ok {
		ctx = context.Background()
	}

	username := ""
	if b.bot.Me != nil {
		username = b.bot.Me.Username
	}

	msg, ok := b.platform.observe(c.Message(), b.botID, username)
	if !ok {
		return nil
	}
	if err := b.submit.Submit(ctx, msg); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("ts", msg.TS).Msg("failed to dispatch message")
	}
	return nil
}

// observe records a message in the history and converts it for the router.
func (p *Platform) observe(m *tele.Message, botID, botUsername string) (core.InboundMessage, bool) {
	if m == nil || m.Sender == nil || m.Chat == nil || m.Text == "" {
		return core.InboundMessage{}, false
	}

	sender := profileOf(m.Sender)
	p.history.rememberUser(sender)
	for _, e := range m.Entities {
		if e.Type == tele.EntityTMention && e.User != nil {
			p.history.rememberUser(profileOf(e.User))
		}
	}

	seen := seenMessage{User: sender.ID, Text: m.Text}
	msg := core.InboundMessage{
		Text:     m.Text,
		User:     sender.ID,
		TS:       strconv.FormatInt(m.Unixtime, 10),
		Channel:  strconv.FormatInt(m.Chat.ID, 10),
		Segments: segments(m.Text, m.Entities, botID, botUsername),
	}
	if parent := m.ReplyTo; parent != nil {
		seen.ReplyTo = parent.ID
		// The chain ends at this message, and the answer replies to it.
		msg.ThreadID = strconv.Itoa(m.ID)
		if parent.Sender != nil {
			msg.ParentUserID = strconv.FormatInt(parent.Sender.ID, 10)
		}
		if _, known := p.history.message(m.Chat.ID, parent.ID); !known && parent.Sender != nil {
			p.history.remember(m.Chat.ID, parent.ID, seenMessage{
				User: strconv.FormatInt(parent.Sender.ID, 10),
				Text: parent.Text,
			})
		}
	}
	p.history.remember(m.Chat.ID, m.ID, seen)
	p.history.wait()
	return msg, true
}

func chatFor(id int64) *tele.Chat {
	return &tele.Chat{ID: id}
}
