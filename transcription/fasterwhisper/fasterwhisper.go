// Package fasterwhisper runs faster-whisper through the whisper-ctranslate2
// command-line tool. Models are quantized with CTranslate2, trading a little
// accuracy for much faster CPU inference.
package fasterwhisper

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/whisperd/logger"
	"github.com/kbukum/whisperd/process"
	"github.com/kbukum/whisperd/transcription"
	"github.com/kbukum/whisperd/util"
	"github.com/kbukum/whisperd/validation"
)

const (
	// ProviderName is the registered name for the speed-optimized backend.
	ProviderName = "faster-whisper"

	// DefaultBinary is the whisper-ctranslate2 CLI executable.
	DefaultBinary = "whisper-ctranslate2"

	installHint = "pip install whisper-ctranslate2"

	previewRunes = 100
)

var (
	// Models lists the model sizes faster-whisper can download.
	Models = []string{
		"tiny", "tiny.en", "base", "base.en", "small", "small.en",
		"medium", "medium.en", "large-v1", "large-v2", "large-v3",
		"distil-large-v2", "distil-large-v3",
	}
	// Devices lists the supported inference devices.
	Devices = []string{"cpu", "cuda", "auto"}
	// ComputeTypes lists the CTranslate2 quantization modes.
	ComputeTypes = []string{
		"int8", "int8_float16", "int8_float32", "int8_bfloat16", "int16",
		"float16", "bfloat16", "float32", "auto", "default",
	}
)

var _ transcription.Backend = (*Provider)(nil)

// Provider implements transcription.Backend with whisper-ctranslate2.
type Provider struct {
	cfg    transcription.Config
	binary string
	log    *logger.Logger
}

// NewProvider creates a speed-optimized backend from cfg.
func NewProvider(cfg transcription.Config) *Provider {
	return &Provider{
		cfg:    cfg,
		binary: util.Coalesce(cfg.Binary, DefaultBinary),
		log:    logger.WithComponent(ProviderName),
	}
}

// Factory creates the speed-optimized backend for the registry.
func Factory(cfg transcription.Config) (transcription.Backend, error) {
	return NewProvider(cfg), nil
}

// Register adds the speed-optimized backend to reg.
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

// Load checks model, device and compute type, probes the CLI, then runs a
// warm-up transcription with the configured settings.
func (p *Provider) Load(ctx context.Context) error {
	if err := validation.New().
		Required("whisper.model", p.cfg.Model).
		OneOf("whisper.model", p.cfg.Model, Models).
		Required("whisper.device", p.cfg.Device).
		OneOf("whisper.device", p.cfg.Device, Devices).
		Required("whisper.compute_type", p.cfg.ComputeType).
		OneOf("whisper.compute_type", p.cfg.ComputeType, ComputeTypes).
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

// Transcribe runs the CLI and joins segment texts with single spaces in the
// order they were emitted.
func (p *Provider) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	start := time.Now()
	out, err := transcription.RunCLI(ctx, p.binary, p.cfg.WorkDir, audioPath, func(outDir string) []string {
		args := []string{
			audioPath,
			"--model", p.cfg.Model,
			"--device", p.cfg.Device,
			"--compute_type", p.cfg.ComputeType,
			"--beam_size", strconv.Itoa(p.beamSize()),
			"--output_format", "json",
			"--output_dir", outDir,
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

	texts := make([]string, len(out.Segments))
	for i, seg := range out.Segments {
		texts[i] = seg.Text
	}
	text := strings.Join(texts, " ")

	fields := logger.DurationFields("transcribe", time.Since(start))
	fields["language"] = out.Language
	fields["segments"] = len(out.Segments)
	fields["preview"] = util.Truncate(text, previewRunes)
	p.log.Info("Transcription complete", fields)
	return text, nil
}

func (p *Provider) beamSize() int {
	if p.cfg.BeamSize <= 0 {
		return 5
	}
	return p.cfg.BeamSize
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
