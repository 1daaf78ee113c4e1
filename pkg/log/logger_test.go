package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := base.WithContext(context.Background())

	ctx = WithComponent(ctx, "router")
	FromCtx(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"router"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestFromCtx_NoLogger(t *testing.T) {
	l := FromCtx(context.Background())
	assert.NotNil(t, l)
}
