package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/recall/internal/config"
	"github.com/sandevgo/recall/internal/providers/llm"
)

type choice struct {
	label string
	value string
}

// ChoiceStep lets the user pick one of a fixed set of options
type ChoiceStep struct {
	title   string
	choices []choice
	cursor  int
	apply   func(state *InstallState, value string)
}

func NewPlatformStep() Step {
	return &ChoiceStep{
		title: "Select the chat platform to listen to:",
		choices: []choice{
			{"Slack", config.PlatformSlack},
			{"Telegram", config.PlatformTelegram},
		},
		apply: func(state *InstallState, v string) { state.App.Platform = v },
	}
}

func NewProviderStep() Step {
	return &ChoiceStep{
		title: "Select your AI Provider:",
		choices: []choice{
			{"OpenAI", llm.ProviderOpenAI},
			{"Anthropic", llm.ProviderAnthropic},
			{"OpenRouter", llm.ProviderOpenRouter},
			{"Ollama", llm.ProviderOllama},
			{"Custom (OpenAI compatible)", llm.ProviderCustom},
		},
		apply: func(state *InstallState, v string) { state.LLM.Provider = v },
	}
}

func NewBackendStep() Step {
	return &ChoiceStep{
		title: "Where should messages be stored?",
		choices: []choice{
			{"SQLite with sqlite-vec", config.BackendSQLite},
			{"chromem-go collection on disk", config.BackendChromem},
		},
		apply: func(state *InstallState, v string) { state.App.VectorBackend = v },
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.apply(state, s.choices[s.cursor].value)
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
