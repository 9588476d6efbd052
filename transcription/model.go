package transcription

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/whisperd/component"
	"github.com/kbukum/whisperd/errors"
	"github.com/kbukum/whisperd/logger"
)

const componentName = "transcription-model"

var (
	_ component.Component   = (*Model)(nil)
	_ component.Describable = (*Model)(nil)
	_ Transcriber           = (*Model)(nil)
)

// Model is the process-wide handle to the loaded speech backend. It loads
// once when started and stays loaded for the life of the process.
type Model struct {
	backend Backend
	cfg     Config
	log     *logger.Logger

	once    sync.Once
	loadErr error
	loaded  atomic.Bool
}

// NewModel wraps backend in a lifecycle-managed handle.
func NewModel(backend Backend, cfg Config, log *logger.Logger) *Model {
	return &Model{
		backend: backend,
		cfg:     cfg,
		log:     log.WithComponent(componentName),
	}
}

// Name returns the component name used for registration.
func (m *Model) Name() string { return componentName }

// Start loads the backend. Later calls return the first result.
func (m *Model) Start(ctx context.Context) error {
	m.once.Do(func() {
		m.log.Info("Loading whisper model", map[string]interface{}{
			logger.FieldBackend: m.backend.Name(),
			"model":             m.cfg.Model,
			"device":            m.cfg.Device,
			"compute_type":      m.cfg.ComputeType,
		})
		start := time.Now()
		if err := m.backend.Load(ctx); err != nil {
			m.loadErr = err
			return
		}
		m.loaded.Store(true)
		m.log.Info("Model loaded", logger.DurationFields("load", time.Since(start)))
	})
	return m.loadErr
}

// Stop is a no-op; backends hold no resources between requests.
func (m *Model) Stop(ctx context.Context) error { return nil }

// Health reports healthy once the model is loaded.
func (m *Model) Health(ctx context.Context) component.Health {
	if m.Loaded() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "model not loaded",
	}
}

// Describe returns summary info for the startup display.
func (m *Model) Describe() component.Description {
	details := fmt.Sprintf("%s %s", m.backend.Name(), m.cfg.Model)
	if m.backend.Name() != "whisper" {
		details += fmt.Sprintf(" %s/%s", m.cfg.Device, m.cfg.ComputeType)
	}
	return component.Description{Name: "Whisper Model", Type: "model", Details: details}
}

// Loaded reports whether the model finished loading.
func (m *Model) Loaded() bool { return m.loaded.Load() }

// BackendName returns the name of the wrapped backend.
func (m *Model) BackendName() string { return m.backend.Name() }

// Config returns the configuration the model was created with.
func (m *Model) Config() Config { return m.cfg }

// Transcribe runs the backend on audioPath. It fails if the model is not loaded.
func (m *Model) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	if !m.Loaded() {
		return "", errors.ModelNotLoaded()
	}
	return m.backend.Transcribe(ctx, audioPath, language)
}
