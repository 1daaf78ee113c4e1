package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

const maxEventBody = 1 << 20

// Submitter hands a message off for asynchronous processing.
type Submitter interface {
	Submit(ctx context.Context, msg core.InboundMessage) error
}

// Server receives Events API deliveries over HTTP. It also serves the
// Prometheus endpoint and a health probe.
type Server struct {
	addr          string
	signingSecret string
	submit        Submitter
	metrics       http.Handler
	server        *http.Server
}

func NewServer(addr, signingSecret string, submit Submitter, metrics http.Handler) *Server {
	s := &Server{
		addr:          addr,
		signingSecret: signingSecret,
		submit:        submit,
		metrics:       metrics,
	}
	return s
}

// Routes builds the HTTP handler. ctx is the base context for request logs
// and for dispatched messages.
func (s *Server) Routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(log.FromCtx(ctx).WithContext(req.Context())))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Post("/slack/events", s.handleEvents)
	return r
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("starting slack events server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) Name() string {
	return "slack-events"
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	logger := log.FromCtx(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := s.verify(r.Header, body); err != nil {
		logger.Warn().Err(err).Msg("rejected unsigned slack request")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	evt, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logger.Warn().Err(err).Msg("failed to parse slack event")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if evt.Type == slackevents.URLVerification {
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
		return
	}

	// Slack redelivers when we are slow to ack. The first delivery is
	// already being processed.
	if r.Header.Get("X-Slack-Retry-Num") != "" {
		logger.Debug().Str("reason", r.Header.Get("X-Slack-Retry-Reason")).Msg("ignoring slack retry")
		w.WriteHeader(http.StatusOK)
		return
	}

	msg, ok, err := decodeMessage(evt)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to decode slack message")
	}
	if ok {
		if err := s.submit.Submit(r.Context(), msg); err != nil {
			logger.Error().Err(err).Str("ts", msg.TS).Msg("failed to dispatch message")
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) verify(header http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, s.signingSecret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
}
