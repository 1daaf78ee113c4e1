package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/metrics"
	"github.com/sandevgo/recall/internal/providers/llm"
	"github.com/sandevgo/recall/internal/providers/rag"
	"github.com/sandevgo/recall/internal/service/memory"
	"github.com/sandevgo/recall/internal/service/router"
	"github.com/sandevgo/recall/internal/storage/chromem"
	"github.com/sandevgo/recall/internal/storage/sqlite"
	slacktransport "github.com/sandevgo/recall/internal/transport/slack"
	"github.com/sandevgo/recall/internal/transport/telegram"
	"github.com/sandevgo/recall/pkg/log"
	"github.com/sandevgo/recall/pkg/srv"
	slackapi "github.com/slack-go/slack"
)

const (
	profileCacheSize = 10_000
	platformBudget   = 30 * time.Second
)

// app is the memory engine plus everything that has to be released with it.
// The CLI commands build only this, start adds a platform on top.
type app struct {
	cfg      *config.AppConfig
	engine   *memory.Engine
	metrics  *metrics.Collector
	services []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)

	a := &app{cfg: appCfg, metrics: metrics.New()}

	// 2. Embeddings
	embedder, err := rag.NewEmbedder(ragCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}
	a.services = append(a.services, srv.NewCleanup("embedder", embedder.Shutdown))

	// 3. Vector index
	index, err := a.initIndex(ctx, embedder)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vector index")
	}

	// 4. LLM
	completer, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 5. Memory
	prompt, err := memory.LoadPrompt(appCfg.GetPromptPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load prompt template")
	}

	store := memory.NewStore(index, appCfg.GetStoreTimeout(), a.metrics)
	timeline := memory.LoadTimeline(ctx, store, index)
	synth := memory.NewSynthesizer(completer, prompt, appCfg.GetLLMTimeout())
	a.engine = memory.NewEngine(store, timeline, synth, appCfg, a.metrics)

	return a
}

func (a *app) initIndex(ctx context.Context, embedder *rag.Embedder) (core.VectorIndex, error) {
	switch a.cfg.GetVectorBackend() {
	case config.BackendChromem:
		return chromem.NewNodeIndex(ctx, a.cfg.GetChromemPath(), a.cfg.GetCollection(), embedder)
	default:
		db, err := sqlite.NewDB(ctx, a.cfg.GetDatabasePath())
		if err != nil {
			return nil, err
		}
		a.services = append(a.services, srv.NewCleanup("database", db.Close))
		return sqlite.NewNodeIndex(ctx, db, embedder, a.cfg.GetCollection(), embedder.Dims())
	}
}

// close releases resources for the one-shot commands that never run
// StartServices.
func (a *app) close(ctx context.Context) {
	for i := len(a.services) - 1; i >= 0; i-- {
		if err := a.services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("cleanup failed")
		}
	}
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	a := newApp(ctx)

	var (
		platform []srv.Service
		err      error
	)
	switch a.cfg.GetPlatform() {
	case config.PlatformTelegram:
		platform, err = a.initTelegram(ctx)
	default:
		platform, err = a.initSlack(ctx)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("platform", a.cfg.GetPlatform()).Msg("failed to initialize platform")
	}

	return append(a.services, platform...)
}

func (a *app) initSlack(ctx context.Context) ([]srv.Service, error) {
	logger := log.FromCtx(ctx)
	cfg := config.NewSlackConfig(ctx)

	opts := []slackapi.Option{slackapi.OptionDebug(cfg.Debug)}
	if cfg.SocketMode() {
		opts = append(opts, slackapi.OptionAppLevelToken(cfg.AppToken))
	}
	api := slackapi.New(cfg.BotToken, opts...)

	platform := slacktransport.NewPlatform(api, nil)
	botID, err := platform.Identify(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to identify bot: %w", err)
	}

	if cfg.JoinChannel != "" {
		channelID, err := platform.JoinChannel(ctx, cfg.JoinChannel)
		if err != nil {
			logger.Warn().Err(err).Str("channel", cfg.JoinChannel).Msg("failed to join channel")
		} else {
			logger.Info().Str("channel", cfg.JoinChannel).Str("channel_id", channelID).Msg("joined channel")
		}
	}

	profiles, err := router.NewCachedPlatform(platform, profileCacheSize)
	if err != nil {
		return nil, err
	}

	rt := router.NewRouter(botID, profiles, a.engine, a.cfg.Location(), a.metrics)
	dispatcher := router.NewDispatcher(a.cfg.Workers, a.messageTimeout(), rt.OnMessage)

	services := []srv.Service{
		srv.NewCleanup("profiles", func() error {
			profiles.Close()
			return nil
		}),
		dispatcher,
	}

	if cfg.SocketMode() {
		logger.Info().Msg("slack socket mode enabled")
		services = append(services, slacktransport.NewSocketMode(api, dispatcher, cfg.Debug))
	} else {
		services = append(services, slacktransport.NewServer(a.cfg.HTTPAddr, cfg.SigningSecret, dispatcher, a.metrics.Handler()))
	}
	return services, nil
}

func (a *app) initTelegram(ctx context.Context) ([]srv.Service, error) {
	cfg := config.NewTelegramConfig(ctx)

	b, err := telegram.NewTeleBot(cfg)
	if err != nil {
		return nil, err
	}

	platform, err := telegram.NewPlatform(b, cfg.HistoryItems, nil)
	if err != nil {
		return nil, err
	}

	rt := router.NewRouter(telegram.BotID(b), platform, a.engine, a.cfg.Location(), a.metrics)
	dispatcher := router.NewDispatcher(a.cfg.Workers, a.messageTimeout(), rt.OnMessage)

	return []srv.Service{
		srv.NewCleanup("history", func() error {
			platform.Close()
			return nil
		}),
		dispatcher,
		telegram.NewBot(ctx, b, platform, dispatcher),
	}, nil
}

// messageTimeout bounds one message end to end: a store write, a query and
// the model call, plus a margin for the platform round trips.
func (a *app) messageTimeout() time.Duration {
	return 2*a.cfg.GetStoreTimeout() + a.cfg.GetLLMTimeout() + platformBudget
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
