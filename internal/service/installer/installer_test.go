package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/providers/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChoiceStep(t *testing.T) {
	state := NewInstallState()
	var step Step = NewProviderStep()

	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyDown}, state, 80, 24)
	require.NotNil(t, step)
	step, _ = step.Update(enter, state, 80, 24)

	assert.Nil(t, step)
	assert.Equal(t, llm.ProviderAnthropic, state.LLM.Provider)
}

func TestInputStep(t *testing.T) {
	t.Run("applies typed value", func(t *testing.T) {
		state := &InstallState{App: config.AppConfig{Platform: config.PlatformSlack}}
		var step Step = NewSlackTokenStep()

		step, _ = step.Update(typeText("xoxb-1"), state, 80, 24)
		require.NotNil(t, step)
		step, _ = step.Update(enter, state, 80, 24)

		assert.Nil(t, step)
		assert.Equal(t, "xoxb-1", state.Slack.BotToken)
	})

	t.Run("required value blocks empty enter", func(t *testing.T) {
		state := &InstallState{App: config.AppConfig{Platform: config.PlatformSlack}}
		step, _ := NewSlackTokenStep().Update(enter, state, 80, 24)
		assert.NotNil(t, step)
	})

	t.Run("optional value accepts empty enter", func(t *testing.T) {
		state := &InstallState{App: config.AppConfig{Platform: config.PlatformSlack}}
		step, _ := NewSlackAppTokenStep().Update(enter, state, 80, 24)
		assert.Nil(t, step)
		assert.Empty(t, state.Slack.AppToken)
	})

	t.Run("skips other platforms", func(t *testing.T) {
		state := &InstallState{App: config.AppConfig{Platform: config.PlatformTelegram}}
		step, _ := NewSlackTokenStep().Update(nextMsg{}, state, 80, 24)
		assert.Nil(t, step)
	})

	t.Run("socket mode needs no signing secret", func(t *testing.T) {
		state := &InstallState{
			App:   config.AppConfig{Platform: config.PlatformSlack},
			Slack: config.SlackConfig{AppToken: "xapp-1"},
		}
		step, _ := NewSlackSigningSecretStep().Update(nextMsg{}, state, 80, 24)
		assert.Nil(t, step)
	})

	t.Run("channel loses its hash", func(t *testing.T) {
		state := &InstallState{App: config.AppConfig{Platform: config.PlatformSlack}}
		var step Step = NewSlackChannelStep()
		step, _ = step.Update(typeText("#bot-testing"), state, 80, 24)
		_, _ = step.Update(enter, state, 80, 24)
		assert.Equal(t, "bot-testing", state.Slack.JoinChannel)
	})
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name    string
		state   InstallState
		wantErr bool
	}{
		{
			name: "slack socket mode",
			state: InstallState{
				App:   config.AppConfig{Platform: config.PlatformSlack},
				LLM:   config.LLMConfig{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini"},
				Slack: config.SlackConfig{BotToken: "xoxb", AppToken: "xapp"},
			},
		},
		{
			name: "slack without secret",
			state: InstallState{
				App:   config.AppConfig{Platform: config.PlatformSlack},
				LLM:   config.LLMConfig{Model: "m"},
				Slack: config.SlackConfig{BotToken: "xoxb"},
			},
			wantErr: true,
		},
		{
			name: "telegram without token",
			state: InstallState{
				App: config.AppConfig{Platform: config.PlatformTelegram},
				LLM: config.LLMConfig{Model: "m"},
			},
			wantErr: true,
		},
		{
			name: "no model",
			state: InstallState{
				App:      config.AppConfig{Platform: config.PlatformTelegram},
				Telegram: config.TelegramConfig{Token: "t"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := finalize(&tt.state)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFinalize_OllamaEmbeddings(t *testing.T) {
	state := &InstallState{
		App:      config.AppConfig{Platform: config.PlatformTelegram},
		LLM:      config.LLMConfig{Provider: llm.ProviderOllama, Model: "llama3", OllamaBaseURL: "http://gpu:11434"},
		Telegram: config.TelegramConfig{Token: "t"},
	}
	require.NoError(t, finalize(state))
	assert.Equal(t, "http://gpu:11434/v1", state.RAG.BaseURL)
	assert.Equal(t, 768, state.RAG.Dimensions)
}

func TestSaveEnv(t *testing.T) {
	dir := t.TempDir()
	state := &InstallState{
		App:      config.AppConfig{Platform: config.PlatformTelegram, VectorBackend: config.BackendChromem},
		LLM:      config.LLMConfig{Provider: llm.ProviderAnthropic, Model: "claude-sonnet-4-5", AnthropicAPIKey: "sk-ant"},
		Slack:    config.SlackConfig{BotToken: "leftover"},
		Telegram: config.TelegramConfig{Token: "123:abc"},
	}

	require.NoError(t, saveEnv(dir, state))

	raw, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, `RECALL_PLATFORM="telegram"`)
	assert.Contains(t, content, `RECALL_VECTOR_BACKEND="chromem"`)
	assert.Contains(t, content, `ANTHROPIC_API_KEY="sk-ant"`)
	assert.Contains(t, content, `TELEGRAM_TOKEN="123:abc"`)
	assert.NotContains(t, content, "SLACK_BOT_TOKEN")

	assert.Error(t, saveEnv(dir, state), "existing .env must not be overwritten")
}

func TestWritePrompt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writePrompt(dir))

	path := filepath.Join(dir, "prompt.tmpl")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "{{.Question}}")

	require.NoError(t, os.WriteFile(path, []byte("custom"), 0644))
	require.NoError(t, writePrompt(dir))
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(raw))
}
