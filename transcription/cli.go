package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/whisperd/process"
)

// CLIOutput is the JSON document whisper-style CLIs write with
// --output_format json.
type CLIOutput struct {
	Text     string       `json:"text"`
	Language string       `json:"language,omitempty"`
	Segments []CLISegment `json:"segments,omitempty"`
}

// CLISegment is one time-aligned piece of a CLI transcript.
type CLISegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ErrNoTranscript is returned when the CLI exits cleanly without writing its
// JSON output.
var ErrNoTranscript = errors.New("backend produced no transcript")

// RunCLI runs a whisper-style CLI against audioPath and decodes the JSON file
// it writes. args receives a fresh output directory under workDir that is
// removed afterwards.
func RunCLI(ctx context.Context, binary, workDir, audioPath string, args func(outputDir string) []string) (*CLIOutput, error) {
	outDir, err := os.MkdirTemp(workDir, "whisperd-out-*")
	if err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	if _, err := process.Run(ctx, process.Command{Binary: binary, Args: args(outDir)}); err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outDir, stem+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoTranscript
		}
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var out CLIOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &out, nil
}

// ProbeCLI resolves binary and checks that it runs. It returns the resolved
// path.
func ProbeCLI(ctx context.Context, binary string) (string, error) {
	path, err := process.LookPath(binary)
	if err != nil {
		return "", err
	}
	if _, err := process.Run(ctx, process.Command{Binary: path, Args: []string{"--help"}}); err != nil {
		return "", fmt.Errorf("probe %s: %w", binary, err)
	}
	return path, nil
}
