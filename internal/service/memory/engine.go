package memory

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/metrics"
	"github.com/sandevgo/recall/pkg/log"
)

// Question is one request for an answer.
type Question struct {
	Text string
	// Asker is the display name of whoever asked, if known.
	Asker string
	// Replies is set when the question came in as a reply in a bot thread.
	Replies core.ReplyChain
}

// Engine ties ingestion and answering together.
//
// Reads and writes share the vector index without coordination. A message
// stored while a question is in flight may or may not be part of that answer.
type Engine struct {
	store    *Store
	timeline *Timeline
	synth    *Synthesizer
	topK     int
	dateKey  string
	loc      *time.Location
	metrics  *metrics.Collector
}

func NewEngine(
	store *Store,
	timeline *Timeline,
	synth *Synthesizer,
	cfg core.RetrievalConfig,
	m *metrics.Collector,
) *Engine {
	return &Engine{
		store:    store,
		timeline: timeline,
		synth:    synth,
		topK:     cfg.GetTopK(),
		dateKey:  cfg.GetDateKey(),
		loc:      cfg.GetLocation(),
		metrics:  m,
	}
}

// Remember appends a message to the timeline.
func (e *Engine) Remember(ctx context.Context, text string, meta core.Metadata) (core.NodeID, error) {
	return e.timeline.Append(ctx, text, meta)
}

// Ask retrieves topK candidates by similarity, re-orders that same set by
// recency and has the model answer from it.
func (e *Engine) Ask(ctx context.Context, q Question) (core.Answer, error) {
	start := time.Now()
	logger := log.FromCtx(ctx)

	candidates, err := e.store.Query(ctx, q.Text, e.topK)
	if err != nil {
		e.metrics.Answer("store_unavailable", time.Since(start))
		return core.Answer{}, err
	}

	ranked := Rank(candidates, e.dateKey, e.loc, e.topK)
	if dropped := len(candidates) - len(ranked); dropped > 0 {
		logger.Debug().
			Int("dropped", dropped).
			Str("date_key", e.dateKey).
			Msg("candidates without a usable timestamp excluded")
	}

	block := Assemble(ranked, q.Replies)

	answer, err := e.synth.Answer(ctx, q.Text, block, q.Asker)
	if err != nil {
		result := "synthesis_failed"
		if !errors.Is(err, core.ErrSynthesisFailed) {
			result = "error"
		}
		e.metrics.Answer(result, time.Since(start))
		return core.Answer{}, err
	}

	e.metrics.Answer("ok", time.Since(start))
	return answer, nil
}

// AnswerDirect answers a bare question for callers outside a chat.
func (e *Engine) AnswerDirect(ctx context.Context, question string) (string, error) {
	answer, err := e.Ask(ctx, Question{Text: question})
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}
