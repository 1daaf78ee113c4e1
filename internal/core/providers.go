package core

import "context"

// Completer sends a prompt to a language model and returns its reply verbatim.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedPassage(ctx context.Context, text string) ([]float32, error)
}

// Platform is the chat service the bot lives in.
type Platform interface {
	ResolveUser(ctx context.Context, userID string) (UserProfile, error)
	FetchThreadReplies(ctx context.Context, channel, threadID string) ([]ThreadMessage, error)
	PostMessage(ctx context.Context, channel, text, threadID string) error
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
}

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}
