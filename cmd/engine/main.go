// Command engine is a minimal host binary wiring EngineConfig from the
// environment, running the loop on a headless platform backend until a
// termination signal arrives.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/emberengine/ember/internal/config"
	"github.com/emberengine/ember/internal/engine"
	"github.com/emberengine/ember/internal/logging"
	"github.com/emberengine/ember/internal/platform"
)

const (
	exitSuccess           = 0
	exitEngineInitFailure = 1
	exitAppInitFailure    = -1
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logging.NewFromEnv("engine")
	cfg := config.FromEnv()

	plat := platform.NewHeadless()
	e := engine.New(cfg, plat)
	e.AttachMetricsRegistry(prometheus.NewRegistry())

	if err := e.Init(); err != nil {
		log.WithError(err).Error("engine init failed")
		return exitEngineInitFailure
	}

	if err := bootstrapApplication(e); err != nil {
		log.WithError(err).Error("application init failed")
		return exitAppInitFailure
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutdown signal received")
		plat.RequestShutdown()
		cancel()
	}()

	if err := e.Run(ctx); err != nil {
		log.WithError(err).Error("engine loop exited with error")
		return exitEngineInitFailure
	}

	return exitSuccess
}

// bootstrapApplication is the seam a host application fills in with its
// own scenes, systems and plugins. The default implementation does
// nothing and always succeeds.
func bootstrapApplication(e *engine.Engine) error {
	return nil
}
