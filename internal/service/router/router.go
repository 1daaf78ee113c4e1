package router

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/metrics"
	"github.com/sandevgo/recall/internal/service/memory"
	"github.com/sandevgo/recall/pkg/log"
)

// FailureReply is posted when a question cannot be answered.
const FailureReply = "Sorry, I couldn't come up with an answer right now. Please try again in a bit."

// Engine is the memory side of the router.
type Engine interface {
	Remember(ctx context.Context, text string, meta core.Metadata) (core.NodeID, error)
	Ask(ctx context.Context, q memory.Question) (core.Answer, error)
}

type Router struct {
	botID    string
	platform core.Platform
	engine   Engine
	loc      *time.Location
	metrics  *metrics.Collector
}

func NewRouter(botID string, platform core.Platform, engine Engine, loc *time.Location, m *metrics.Collector) *Router {
	if loc == nil {
		loc = time.Local
	}
	return &Router{
		botID:    botID,
		platform: platform,
		engine:   engine,
		loc:      loc,
		metrics:  m,
	}
}

// OnMessage handles one inbound message. Failures are logged and the message
// is dropped, nothing here is fatal.
func (r *Router) OnMessage(ctx context.Context, msg core.InboundMessage) {
	logger := log.FromCtx(ctx).With().
		Str("channel", msg.Channel).
		Str("ts", msg.TS).
		Str("user", msg.User).
		Logger()
	ctx = logger.WithContext(ctx)

	if err := r.Handle(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("message dropped")
	}
}

// Handle is OnMessage with the error returned.
func (r *Router) Handle(ctx context.Context, msg core.InboundMessage) error {
	if err := validate(msg); err != nil {
		return err
	}
	if r.botID != "" && msg.User == r.botID {
		return nil
	}

	c, err := Classify(msg, r.botID)
	if errors.Is(err, core.ErrClassificationAmbiguous) {
		log.FromCtx(ctx).Warn().Err(err).Stringer("resolved_as", c.Kind).Msg("ambiguous message")
	}
	r.metrics.Message(c.Kind.String())

	switch c.Kind {
	case core.KindDirectQuestion:
		return r.answer(ctx, msg, c.Query, nil, "")
	case core.KindThreadedReply:
		replies, err := r.replyChain(ctx, msg.Channel, msg.ThreadID)
		if err != nil {
			// answer without the thread rather than stay silent
			log.FromCtx(ctx).Warn().Err(err).Msg("failed to fetch thread replies")
		}
		return r.answer(ctx, msg, c.Query, replies, msg.ThreadID)
	default:
		return r.ingest(ctx, msg, c.Segments)
	}
}

func validate(msg core.InboundMessage) error {
	switch {
	case msg.TS == "":
		return fmt.Errorf("%w: missing ts", core.ErrMalformedMessage)
	case strings.TrimSpace(msg.Text) == "" && len(msg.Segments) == 0:
		return fmt.Errorf("%w: missing text", core.ErrMalformedMessage)
	case msg.Channel == "":
		return fmt.Errorf("%w: missing channel", core.ErrMalformedMessage)
	}
	return nil
}

func (r *Router) ingest(ctx context.Context, msg core.InboundMessage, segs []core.Segment) error {
	when, err := FormatWhen(msg.TS, r.loc)
	if err != nil {
		return err
	}

	text := r.render(ctx, segs)
	if text == "" {
		return nil
	}

	id, err := r.engine.Remember(ctx, text, core.Metadata{
		Who:  r.label(ctx, msg.User),
		When: when,
	})
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("node_id", id.String()).Msg("message stored")
	return nil
}

func (r *Router) answer(ctx context.Context, msg core.InboundMessage, query string, replies core.ReplyChain, threadID string) error {
	if query == "" {
		log.FromCtx(ctx).Debug().Msg("empty question ignored")
		return nil
	}

	answer, err := r.engine.Ask(ctx, memory.Question{
		Text:    query,
		Asker:   r.label(ctx, msg.User),
		Replies: replies,
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("question", query).Msg("failed to answer")
		if postErr := r.platform.PostMessage(ctx, msg.Channel, FailureReply, threadID); postErr != nil {
			return errors.Join(err, postErr)
		}
		return nil
	}

	if err := r.platform.PostMessage(ctx, msg.Channel, answer.Text, threadID); err != nil {
		return fmt.Errorf("failed to post answer: %w", err)
	}
	return nil
}

func (r *Router) replyChain(ctx context.Context, channel, threadID string) (core.ReplyChain, error) {
	msgs, err := r.platform.FetchThreadReplies(ctx, channel, threadID)
	if err != nil {
		return nil, err
	}

	chain := make(core.ReplyChain, 0, len(msgs))
	for _, m := range msgs {
		chain = append(chain, core.ReplyLine{
			Speaker: r.label(ctx, m.User),
			Text:    r.render(ctx, ParseSegments(m.Text)),
		})
	}
	return chain, nil
}

// label resolves a user to a display name, falling back to the raw id.
func (r *Router) label(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	profile, err := r.platform.ResolveUser(ctx, userID)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to resolve user")
		return userID
	}
	return profile.Label()
}

// render turns segments back into text with mentions as @name.
func (r *Router) render(ctx context.Context, segs []core.Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case core.SegmentMention:
			sb.WriteString("@" + r.label(ctx, s.UserID))
		default:
			sb.WriteString(s.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatWhen converts a platform timestamp (seconds since the epoch, with an
// optional fraction) to the stored "when" layout.
func FormatWhen(ts string, loc *time.Location) (string, error) {
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("%w: bad ts %q", core.ErrMalformedMessage, ts)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).In(loc).Format(core.WhenLayout), nil
}
