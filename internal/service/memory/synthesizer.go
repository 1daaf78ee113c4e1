package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/sandevgo/recall/pkg/tokens"
)

type Synthesizer struct {
	llm     core.Completer
	prompt  *Prompt
	timeout time.Duration
}

func NewSynthesizer(llm core.Completer, prompt *Prompt, timeout time.Duration) *Synthesizer {
	if prompt == nil {
		prompt = DefaultPrompt()
	}
	return &Synthesizer{
		llm:     llm,
		prompt:  prompt,
		timeout: timeout,
	}
}

// Answer asks the model and returns its text verbatim with the nodes it was
// grounded on. Model errors and timeouts come back as ErrSynthesisFailed.
func (s *Synthesizer) Answer(ctx context.Context, question string, block core.ContextBlock, asker string) (core.Answer, error) {
	logger := log.FromCtx(ctx)

	prompt, err := s.prompt.Build(block, asker, question)
	if err != nil {
		return core.Answer{}, fmt.Errorf("%w: %w", core.ErrSynthesisFailed, err)
	}

	for i, n := range block.Nodes {
		logger.Debug().
			Int("rank", i+1).
			Str("node_id", n.ID.String()).
			Str("who", n.Metadata.Who).
			Str("when", n.Metadata.When).
			Float32("score", n.Score).
			Str("text", n.Text).
			Msg("source node")
	}
	logger.Debug().
		Int("nodes", len(block.Nodes)).
		Int("replies", len(block.Replies)).
		Int("prompt_tokens", tokens.Count(prompt)).
		Msg("sending prompt")

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return core.Answer{}, fmt.Errorf("%w: %w", core.ErrSynthesisFailed, err)
	}

	return core.Answer{Text: text, Nodes: block.Nodes}, nil
}
