// Package whisper runs the reference openai-whisper command-line tool at
// full precision.
package whisper

import (
	"context"

	"github.com/kbukum/whisperd/logger"
	"github.com/kbukum/whisperd/process"
	"github.com/kbukum/whisperd/transcription"
	"github.com/kbukum/whisperd/util"
	"github.com/kbukum/whisperd/validation"
)

const (
	// ProviderName is the registered name for the reference backend.
	ProviderName = "whisper"

	// DefaultBinary is the openai-whisper CLI executable.
	DefaultBinary = "whisper"

	installHint = "pip install openai-whisper"
)

// Models lists the model sizes openai-whisper accepts.
var Models = []string{
	"tiny", "tiny.en", "base", "base.en", "small", "small.en",
	"medium", "medium.en", "large", "large-v1", "large-v2", "large-v3", "turbo",
}

var _ transcription.Backend = (*Provider)(nil)

// Provider implements transcription.Backend with the openai-whisper CLI.
type Provider struct {
	cfg    transcription.Config
	binary string
	log    *logger.Logger
}

// NewProvider creates a reference backend from cfg.
func NewProvider(cfg transcription.Config) *Provider {
	return &Provider{
		cfg:    cfg,
		binary: util.Coalesce(cfg.Binary, DefaultBinary),
		log:    logger.WithComponent(ProviderName),
	}
}

// Factory creates the reference backend for the registry.
func Factory(cfg transcription.Config) (transcription.Backend, error) {
	return NewProvider(cfg), nil
}

// Register adds the reference backend to reg.
func Register(reg *transcription.Registry) {
	reg.RegisterFactory(ProviderName, Factory)
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the CLI is on PATH.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := process.LookPath(p.binary)
	return err == nil
}

// Load checks the model size, probes the CLI and runs a warm-up
// transcription so the weights are on disk before the first request.
func (p *Provider) Load(ctx context.Context) error {
	if err := validation.New().
		Required("whisper.model", p.cfg.Model).
		OneOf("whisper.model", p.cfg.Model, Models).
		Err(); err != nil {
		return p.loadError(err)
	}
	path, err := transcription.ProbeCLI(ctx, p.binary)
	if err != nil {
		return p.loadError(err)
	}
	p.binary = path
	if err := transcription.WarmUp(ctx, p, p.cfg.WorkDir); err != nil {
		return p.loadError(err)
	}
	return nil
}

// Transcribe runs the CLI and returns its aggregate text unchanged.
func (p *Provider) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	out, err := transcription.RunCLI(ctx, p.binary, p.cfg.WorkDir, audioPath, func(outDir string) []string {
		args := []string{
			audioPath,
			"--model", p.cfg.Model,
			"--output_format", "json",
			"--output_dir", outDir,
			"--fp16", "False",
			"--verbose", "False",
		}
		if language != "" {
			args = append(args, "--language", language)
		}
		return args
	})
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

func (p *Provider) loadError(cause error) error {
	return &transcription.LoadError{
		Backend:   ProviderName,
		Model:     p.cfg.Model,
		Cause:     cause,
		Available: Models,
		Install:   installHint,
	}
}
