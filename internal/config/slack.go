package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recall/pkg/log"
)

type SlackConfig struct {
	BotToken      string `env:"SLACK_BOT_TOKEN,required,notEmpty"`
	SigningSecret string `env:"SLACK_SIGNING_SECRET"`
	// AppToken switches the transport to Socket Mode.
	AppToken    string `env:"SLACK_APP_TOKEN"`
	JoinChannel string `env:"SLACK_JOIN_CHANNEL"`
	Debug       bool   `env:"SLACK_DEBUG" envDefault:"false"`
}

func NewSlackConfig(ctx context.Context) *SlackConfig {
	c := &SlackConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Slack config")
	}
	if c.AppToken == "" && c.SigningSecret == "" {
		log.FromCtx(ctx).Fatal().Msg("SLACK_SIGNING_SECRET is required when SLACK_APP_TOKEN is not set")
	}
	return c
}

func (c SlackConfig) SocketMode() bool {
	return c.AppToken != ""
}
