package mcp

import (
	"bufio"
	"context"
	"io"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEngine struct {
	remembered []core.Metadata
	texts      []string
	answer     string
	err        error
}

func (m *mockEngine) Remember(ctx context.Context, text string, meta core.Metadata) (core.NodeID, error) {
	if m.err != nil {
		return "", m.err
	}
	m.texts = append(m.texts, text)
	m.remembered = append(m.remembered, meta)
	return "node-1", nil
}

func (m *mockEngine) AnswerDirect(ctx context.Context, question string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		engine  *mockEngine
		want    string
		wantErr bool
	}{
		{name: "answers", args: map[string]any{"question": "what is doug?"}, engine: &mockEngine{answer: "Doug is a dog."}, want: "Doug is a dog."},
		{name: "missing question", args: map[string]any{}, engine: &mockEngine{}, wantErr: true},
		{name: "synthesis failure", args: map[string]any{"question": "x"}, engine: &mockEngine{err: core.ErrSynthesisFailed}, want: "could not synthesize an answer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(tt.engine, time.UTC)
			res, err := s.handleAsk(test.Ctx(t), call("ask", tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.wantErr, res.IsError)
			if tt.want != "" {
				assert.Equal(t, tt.want, text(t, res))
			}
		})
	}
}

func TestRemember(t *testing.T) {
	engine := &mockEngine{}
	s := NewServer(engine, time.UTC)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC) }

	res, err := s.handleRemember(test.Ctx(t), call("remember", map[string]any{"text": "Doug is a dog", "who": "Alice"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "node-1", text(t, res))
	assert.Equal(t, []core.Metadata{{Who: "Alice", When: "2024-01-02 10:00:00"}}, engine.remembered)

	res, err = s.handleRemember(test.Ctx(t), call("remember", map[string]any{"text": "Molly is a cat", "when": "2024-01-01 09:30:00"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "2024-01-01 09:30:00", engine.remembered[1].When)

	res, err = s.handleRemember(test.Ctx(t), call("remember", map[string]any{"text": "x", "when": "yesterday"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Len(t, engine.remembered, 2)
}

func TestRemember_StoreUnavailable(t *testing.T) {
	s := NewServer(&mockEngine{err: core.ErrStoreUnavailable}, time.UTC)
	res, err := s.handleRemember(test.Ctx(t), call("remember", map[string]any{"text": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "memory store is unavailable", text(t, res))
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := NewServer(&mockEngine{}, time.UTC)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	t.Cleanup(func() {
		inW.Close()
		outR.Close()
	})

	ctx, cancel := context.WithCancel(test.Ctx(t))
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, inR, outW) }()

	go func() {
		_, _ = io.WriteString(inW, `{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n")
	}()
	line, err := bufio.NewReader(outR).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"id":1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
