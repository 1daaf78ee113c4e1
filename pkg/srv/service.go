package srv

import (
	"context"
	"fmt"

	"github.com/sandevgo/recall/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Named lets a service report a readable name in lifecycle logs.
type Named interface {
	Name() string
}

func nameOf(s Service) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// StartServices launches every service in its own goroutine. A service whose
// Start fails brings the process down.
func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			logger.Debug().Str("service", nameOf(service)).Msg("starting")
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Str("service", nameOf(service)).Msg("failed to start")
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is done, then stops services in reverse
// start order so consumers stop before the stores they write to.
func ShutdownServices(ctx context.Context, shutdownCtx context.Context, services []Service) {
	<-ctx.Done()
	for i := len(services) - 1; i >= 0; i-- {
		service := services[i]
		if err := service.Shutdown(shutdownCtx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Str("service", nameOf(service)).Msg("failed to shutdown")
		}
	}
}
