// Command whisperd serves local speech-to-text behind the OpenAI audio
// transcription API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kbukum/whisperd/bootstrap"
	"github.com/kbukum/whisperd/config"
	"github.com/kbukum/whisperd/gateway"
	"github.com/kbukum/whisperd/logger"
	"github.com/kbukum/whisperd/metrics"
	"github.com/kbukum/whisperd/observability"
	"github.com/kbukum/whisperd/resilience"
	"github.com/kbukum/whisperd/server"
	"github.com/kbukum/whisperd/staging"
	"github.com/kbukum/whisperd/transcription"
	"github.com/kbukum/whisperd/transcription/fasterwhisper"
	"github.com/kbukum/whisperd/transcription/whisper"
	"github.com/kbukum/whisperd/version"
)

const serviceName = "whisperd"

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvAliases(envAliases)); err != nil {
		fmt.Fprintf(os.Stderr, "whisperd: %v\n", err)
		return 1
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().String()
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whisperd: %v\n", err)
		return 1
	}

	if err := wire(ctx, app); err != nil {
		app.Logger.Error("Startup failed", logger.Fields(logger.FieldError, err.Error()))
		return 1
	}
	if err := app.Run(ctx); err != nil {
		app.Logger.Error("whisperd stopped with an error", logger.Fields(logger.FieldError, err.Error()))
		return 1
	}
	return 0
}

// wire builds the components and registers them in start order: the model
// loads before the HTTP server binds a port.
func wire(ctx context.Context, app *bootstrap.App[*Config]) error {
	cfg := app.Cfg

	backends := transcription.NewRegistry()
	whisper.Register(backends)
	fasterwhisper.Register(backends)

	cfg.Whisper.WorkDir = cfg.Staging.Dir
	backend, err := backends.Create(cfg.Whisper.Backend, cfg.Whisper)
	if err != nil {
		return fmt.Errorf("whisper.backend: %w", err)
	}
	model := transcription.NewModel(backend, cfg.Whisper, app.Logger)

	telemetry, err := observability.Setup(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(telemetry.Shutdown)

	var otelMetrics *observability.Metrics
	if telemetry.Enabled() {
		if otelMetrics, err = observability.NewMetrics(observability.Meter(serviceName)); err != nil {
			return err
		}
	}

	prom := metrics.New()
	inference := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "inference",
		MaxConcurrent: cfg.Inference.MaxConcurrent,
		MaxWait:       cfg.Inference.MaxWait,
		OnAcquire: func(_ string, waited time.Duration) {
			prom.RecordInferenceWait(waited)
		},
	})
	prom.RegisterGaugeFunc("inference_in_flight", "Transcriptions currently running on the backend",
		func() float64 { return float64(inference.InUse()) })
	prom.RegisterGaugeFunc("inference_waiting", "Transcriptions queued for an inference slot",
		func() float64 { return float64(inference.Waiting()) })
	prom.RegisterGaugeFunc("model_loaded", "1 once the speech model has loaded",
		func() float64 {
			if model.Loaded() {
				return 1
			}
			return 0
		})

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyMiddleware()
	srv.GinEngine().Use(prom.GinMiddleware())
	srv.RegisterDefaultEndpoints(cfg.Name, model, app.Components.HealthAll, prom.Handler())
	gateway.NewHandler(gateway.Options{
		ServiceName: cfg.Name,
		Backend:     model.BackendName(),
		Model:       model,
		Stager:      staging.New(cfg.Staging),
		Inference:   inference,
		Metrics:     prom,
		Telemetry:   otelMetrics,
		Logger:      app.Logger,
	}).Register(srv.GinEngine())
	srv.SetErrorHandler(app.Fatal)

	if err := app.RegisterComponent(model); err != nil {
		return err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	app.OnReady(func(ctx context.Context) error {
		b := srv.Binding()
		app.Logger.Info("whisperd is ready", logger.Fields(
			"url", b.URL(),
			"openai_base_url", b.URL()+"/v1",
			logger.FieldBackend, model.BackendName(),
			"model", cfg.Whisper.Model,
		))
		if b.Port != cfg.Server.Port {
			app.Logger.Warn(fmt.Sprintf("Port %d was busy; clients must use port %d. Set PORT to choose another port.", cfg.Server.Port, b.Port))
		}
		return nil
	})
	return nil
}
