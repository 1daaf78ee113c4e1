package srv

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, s)
}

func TestShutdownServices_ReverseOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(zerolog.Nop().WithContext(context.Background()))
	rec := &recorder{}

	services := []Service{
		NewCleanup("store", func() error { rec.add("store"); return nil }),
		NewCleanup("router", func() error { rec.add("router"); return nil }),
		NewCleanup("transport", func() error { rec.add("transport"); return nil }),
	}

	cancel()
	ShutdownServices(ctx, context.Background(), services)

	assert.Equal(t, []string{"transport", "router", "store"}, rec.order)
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "store", nameOf(NewCleanup("store", nil)))
}
