package installer

import (
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/pkg/env"
)

// InstallState collects answers into the same structs the bot parses its
// environment into, so what gets saved is exactly what gets read back.
type InstallState struct {
	App      config.AppConfig
	LLM      config.LLMConfig
	RAG      config.RAGConfig
	Slack    config.SlackConfig
	Telegram config.TelegramConfig
}

func NewInstallState() *InstallState {
	return &InstallState{}
}

// Env renders the collected configuration as .env content. Only the chosen
// platform's settings are written.
func (s *InstallState) Env() (string, error) {
	configs := []any{&s.App, &s.LLM, &s.RAG}
	switch s.App.Platform {
	case config.PlatformTelegram:
		configs = append(configs, &s.Telegram)
	case config.PlatformSlack:
		configs = append(configs, &s.Slack)
	}
	return env.MarshalEnv(configs...)
}
