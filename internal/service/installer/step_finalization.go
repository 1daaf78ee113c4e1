package installer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/providers/llm"
)

// FinalizationStep fills derived values and checks the result before saving
type FinalizationStep struct {
	err error
}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.err != nil {
		return s, nil
	}
	if err := finalize(state); err != nil {
		s.err = err
		return s, nil
	}
	return nil, nil
}

func finalize(state *InstallState) error {
	// Ollama serves OpenAI-compatible embeddings too
	if state.LLM.Provider == llm.ProviderOllama && state.RAG.APIKey == "" && state.LLM.OpenAIAPIKey == "" {
		base := state.LLM.OllamaBaseURL
		if base == "" {
			base = "http://localhost:11434"
		}
		state.RAG.BaseURL = base + "/v1"
		state.RAG.APIKey = "ollama"
		state.RAG.ModelName = "nomic-embed-text"
		state.RAG.Dimensions = 768
		state.RAG.QueryPrefix = "search_query: "
		state.RAG.PassagePrefix = "search_document: "
	}

	switch state.App.Platform {
	case config.PlatformSlack:
		if state.Slack.BotToken == "" {
			return fmt.Errorf("slack bot token is required")
		}
		if state.Slack.AppToken == "" && state.Slack.SigningSecret == "" {
			return fmt.Errorf("slack needs either an app token or a signing secret")
		}
	case config.PlatformTelegram:
		if state.Telegram.Token == "" {
			return fmt.Errorf("telegram token is required")
		}
	default:
		return fmt.Errorf("unknown platform: %q", state.App.Platform)
	}

	if state.LLM.Model == "" {
		return fmt.Errorf("no model selected")
	}
	return nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	return "Finalizing configuration...\n"
}
