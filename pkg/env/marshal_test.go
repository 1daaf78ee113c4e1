package env

import (
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slackSection struct {
	BotToken string `env:"SLACK_BOT_TOKEN,required"`
	Channel  string `env:"SLACK_JOIN_CHANNEL"`
}

type appSection struct {
	Platform string        `env:"RECALL_PLATFORM"`
	TopK     int           `env:"RECALL_TOP_K"`
	Timeout  time.Duration `env:"RECALL_LLM_TIMEOUT"`
	Debug    bool          `env:"RECALL_DEBUG"`
	Ignored  string
	hidden   string `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	app := &appSection{
		Platform: "slack",
		TopK:     20,
		Timeout:  90 * time.Second,
		Ignored:  "x",
		hidden:   "y",
	}
	slack := &slackSection{BotToken: "xoxb-1 two"}

	out, err := MarshalEnv(app, slack)
	require.NoError(t, err)

	parsed, err := godotenv.Unmarshal(out)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"RECALL_PLATFORM":    "slack",
		"RECALL_TOP_K":       "20",
		"RECALL_LLM_TIMEOUT": "1m30s",
		"SLACK_BOT_TOKEN":    "xoxb-1 two",
	}, parsed)
}

func TestMarshalEnv_Empty(t *testing.T) {
	out, err := MarshalEnv(&slackSection{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarshalEnv_RejectsNonPointer(t *testing.T) {
	_, err := MarshalEnv(slackSection{})
	assert.Error(t, err)
}
