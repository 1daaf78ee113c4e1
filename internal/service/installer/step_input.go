package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/providers/llm"
)

// InputStep collects a single text value
type InputStep struct {
	input    textinput.Model
	prompt   string
	optional bool
	skip     func(state *InstallState) bool
	apply    func(state *InstallState, value string)
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func (s *InputStep) Init() tea.Cmd {
	// nextMsg gives Update a chance to skip before any key is pressed
	return tea.Batch(textinput.Blink, func() tea.Msg { return nextMsg{} })
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.skip != nil && s.skip(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && !s.optional {
			return s, cmd
		}
		s.apply(state, val)
		return nil, nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	hint := ""
	if s.optional {
		hint = " (optional - press Enter to skip)"
	}
	return fmt.Sprintf("%s%s:\n\n%s\n\n(press enter to confirm)\n", s.prompt, hint, s.input.View())
}

func platformIs(p string) func(*InstallState) bool {
	return func(state *InstallState) bool { return state.App.Platform != p }
}

func providerIs(p string) func(*InstallState) bool {
	return func(state *InstallState) bool { return state.LLM.Provider != p }
}

func NewSlackTokenStep() Step {
	return &InputStep{
		input:  newInput("xoxb-...", true),
		prompt: "Enter your Slack Bot Token",
		skip:   platformIs(config.PlatformSlack),
		apply:  func(state *InstallState, v string) { state.Slack.BotToken = v },
	}
}

func NewSlackAppTokenStep() Step {
	return &InputStep{
		input:    newInput("xapp-... enables Socket Mode", true),
		prompt:   "Enter your Slack App Token",
		optional: true,
		skip:     platformIs(config.PlatformSlack),
		apply:    func(state *InstallState, v string) { state.Slack.AppToken = v },
	}
}

func NewSlackSigningSecretStep() Step {
	return &InputStep{
		input:  newInput("from Basic Information > App Credentials", true),
		prompt: "Enter your Slack Signing Secret",
		skip: func(state *InstallState) bool {
			return state.App.Platform != config.PlatformSlack || state.Slack.AppToken != ""
		},
		apply: func(state *InstallState, v string) { state.Slack.SigningSecret = v },
	}
}

func NewSlackChannelStep() Step {
	return &InputStep{
		input:    newInput("bot-testing", false),
		prompt:   "Channel to join on startup",
		optional: true,
		skip:     platformIs(config.PlatformSlack),
		apply: func(state *InstallState, v string) {
			state.Slack.JoinChannel = strings.TrimPrefix(v, "#")
		},
	}
}

func NewTelegramTokenStep() Step {
	return &InputStep{
		input:  newInput("123456789:ABCDEF...", true),
		prompt: "Enter your Telegram Bot Token",
		skip:   platformIs(config.PlatformTelegram),
		apply:  func(state *InstallState, v string) { state.Telegram.Token = v },
	}
}

func NewOpenAIKeyStep() Step {
	return &InputStep{
		input:  newInput("sk-...", true),
		prompt: "Enter your OpenAI API Key",
		skip:   providerIs(llm.ProviderOpenAI),
		apply:  func(state *InstallState, v string) { state.LLM.OpenAIAPIKey = v },
	}
}

func NewAnthropicKeyStep() Step {
	return &InputStep{
		input:  newInput("sk-ant-...", true),
		prompt: "Enter your Anthropic API Key",
		skip:   providerIs(llm.ProviderAnthropic),
		apply:  func(state *InstallState, v string) { state.LLM.AnthropicAPIKey = v },
	}
}

func NewOpenRouterKeyStep() Step {
	return &InputStep{
		input:  newInput("sk-or-v1-...", true),
		prompt: "Enter your OpenRouter API Key",
		skip:   providerIs(llm.ProviderOpenRouter),
		apply:  func(state *InstallState, v string) { state.LLM.OpenRouterAPIKey = v },
	}
}

func NewOllamaURLStep() Step {
	return &InputStep{
		input:    newInput("http://127.0.0.1:11434", false),
		prompt:   "Enter Ollama Base URL",
		optional: true,
		skip:     providerIs(llm.ProviderOllama),
		apply:    func(state *InstallState, v string) { state.LLM.OllamaBaseURL = v },
	}
}

func NewCustomURLStep() Step {
	return &InputStep{
		input:  newInput("https://api.example.com/v1", false),
		prompt: "Enter Custom OpenAI Base URL",
		skip:   providerIs(llm.ProviderCustom),
		apply:  func(state *InstallState, v string) { state.LLM.CustomBaseURL = v },
	}
}

func NewCustomKeyStep() Step {
	return &InputStep{
		input:    newInput("", true),
		prompt:   "Enter the API Key for your endpoint",
		optional: true,
		skip:     providerIs(llm.ProviderCustom),
		apply:    func(state *InstallState, v string) { state.LLM.CustomAPIKey = v },
	}
}

// NewEmbeddingKeyStep asks for an embeddings key unless the OpenAI key from
// the provider step can be reused. Ollama embeds locally.
func NewEmbeddingKeyStep() Step {
	return &InputStep{
		input:  newInput("sk-...", true),
		prompt: "Enter an OpenAI API Key for embeddings",
		skip: func(state *InstallState) bool {
			return state.LLM.OpenAIAPIKey != "" || state.LLM.Provider == llm.ProviderOllama
		},
		apply: func(state *InstallState, v string) { state.RAG.APIKey = v },
	}
}
