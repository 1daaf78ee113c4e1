// Package mcp exposes the memory over the Model Context Protocol so other
// agents can ask it questions or feed it messages.
package mcp

import (
	"context"
	"errors"
	"io"
	stdlog "log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
)

type Engine interface {
	Remember(ctx context.Context, text string, meta core.Metadata) (core.NodeID, error)
	AnswerDirect(ctx context.Context, question string) (string, error)
}

type Server struct {
	engine Engine
	loc    *time.Location
	now    func() time.Time
	mcp    *server.MCPServer
}

func NewServer(engine Engine, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		engine: engine,
		loc:    loc,
		now:    time.Now,
		mcp: server.NewMCPServer(
			core.RecallName,
			core.RecallVersion,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}

	s.mcp.AddTool(mcp.NewTool("ask",
		mcp.WithDescription("Answer a question from the chat history the bot has been listening to. Recent messages take precedence over older ones."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
	), s.handleAsk)

	s.mcp.AddTool(mcp.NewTool("remember",
		mcp.WithDescription("Store a chat message in the bot's memory."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What was said"),
		),
		mcp.WithString("who",
			mcp.Description("Who said it"),
		),
		mcp.WithString("when",
			mcp.Description("When it was said, as YYYY-MM-DD HH:MM:SS. Defaults to now"),
		),
	), s.handleRemember)

	return s
}

// ServeStdio blocks serving the protocol on stdin/stdout until ctx ends or
// the client closes stdin.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.serve(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("serving mcp on stdio")

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(logger.With().Str("component", "mcp").Logger(), "", 0))

	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer, err := s.engine.AnswerDirect(ctx, question)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("question", question).Msg("mcp ask failed")
		return mcp.NewToolResultError(toolError(err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (s *Server) handleRemember(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	when := req.GetString("when", "")
	if when == "" {
		when = s.now().In(s.loc).Format(core.WhenLayout)
	} else if _, err := time.ParseInLocation(core.WhenLayout, when, s.loc); err != nil {
		return mcp.NewToolResultError("when must look like 2006-01-02 15:04:05"), nil
	}

	id, err := s.engine.Remember(ctx, text, core.Metadata{
		Who:  req.GetString("who", ""),
		When: when,
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("mcp remember failed")
		return mcp.NewToolResultError(toolError(err)), nil
	}
	return mcp.NewToolResultText(id.String()), nil
}

func toolError(err error) string {
	switch {
	case errors.Is(err, core.ErrStoreUnavailable):
		return "memory store is unavailable"
	case errors.Is(err, core.ErrSynthesisFailed):
		return "could not synthesize an answer"
	default:
		return "internal error"
	}
}
