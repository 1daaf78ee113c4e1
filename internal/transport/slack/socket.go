package slack

import (
	"context"
	"errors"
	"sync"

	"github.com/sandevgo/recall/pkg/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// SocketMode receives events over a websocket, for workspaces where the bot
// cannot expose a public HTTP endpoint.
type SocketMode struct {
	client *socketmode.Client
	submit Submitter

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSocketMode(api *slack.Client, submit Submitter, debug bool) *SocketMode {
	return &SocketMode{
		client: socketmode.New(api, socketmode.OptionDebug(debug)),
		submit: submit,
	}
}

func (s *SocketMode) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()

	log.FromCtx(ctx).Info().Msg("starting slack socket mode")
	if err := s.client.RunContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *SocketMode) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SocketMode) Name() string {
	return "slack-socket-mode"
}

func (s *SocketMode) loop(ctx context.Context) {
	logger := log.FromCtx(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-s.client.Events:
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				logger.Debug().Msg("connecting to slack")
			case socketmode.EventTypeConnected:
				logger.Info().Msg("connected to slack")
			case socketmode.EventTypeConnectionError:
				logger.Warn().Msg("slack connection failed, retrying")
			case socketmode.EventTypeEventsAPI:
				s.handle(ctx, evt)
			}
		}
	}
}

func (s *SocketMode) handle(ctx context.Context, evt socketmode.Event) {
	logger := log.FromCtx(ctx)
	if evt.Request != nil {
		s.client.Ack(*evt.Request)
	}

	apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		logger.Debug().Msg("ignored socket mode event")
		return
	}

	msg, ok, err := decodeMessage(apiEvent)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to decode slack message")
		return
	}
	if !ok {
		return
	}
	if err := s.submit.Submit(ctx, msg); err != nil {
		logger.Error().Err(err).Str("ts", msg.TS).Msg("failed to dispatch message")
	}
}
