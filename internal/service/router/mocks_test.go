package router

import (
	"context"
	"errors"
	"sync"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/memory"
)

type post struct {
	channel  string
	text     string
	threadID string
}

type fetch struct {
	channel  string
	threadID string
}

type mockPlatform struct {
	mu       sync.Mutex
	profiles map[string]core.UserProfile
	thread   []core.ThreadMessage
	fetchErr error
	posts    []post
	fetches  []fetch
	resolves int
}

func (m *mockPlatform) ResolveUser(ctx context.Context, userID string) (core.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolves++
	p, ok := m.profiles[userID]
	if !ok {
		return core.UserProfile{}, errors.New("user_not_found")
	}
	return p, nil
}

func (m *mockPlatform) FetchThreadReplies(ctx context.Context, channel, threadID string) ([]core.ThreadMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, fetch{channel: channel, threadID: threadID})
	return m.thread, m.fetchErr
}

func (m *mockPlatform) PostMessage(ctx context.Context, channel, text, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, post{channel: channel, text: text, threadID: threadID})
	return nil
}

type remembered struct {
	text string
	meta core.Metadata
}

type mockEngine struct {
	mu         sync.Mutex
	remembered []remembered
	questions  []memory.Question
	answer     string
	askErr     error
	storeErr   error
}

func (m *mockEngine) Remember(ctx context.Context, text string, meta core.Metadata) (core.NodeID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return "", m.storeErr
	}
	m.remembered = append(m.remembered, remembered{text: text, meta: meta})
	return core.NewNodeID(), nil
}

func (m *mockEngine) Ask(ctx context.Context, q memory.Question) (core.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, q)
	if m.askErr != nil {
		return core.Answer{}, m.askErr
	}
	return core.Answer{Text: m.answer}, nil
}
