package transcription_test

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/whisperd/process"
	"github.com/kbukum/whisperd/testutil"
	"github.com/kbukum/whisperd/transcription"
)

func stageAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func cliArgs(audio string) func(string) []string {
	return func(outDir string) []string {
		return []string{audio, "--output_format", "json", "--output_dir", outDir}
	}
}

func TestRunCLIDecodesOutput(t *testing.T) {
	cli := testutil.FakeWhisperCLI(t)
	audio := stageAudio(t, "clip.wav")

	out, err := transcription.RunCLI(context.Background(), cli, t.TempDir(), audio, cliArgs(audio))
	if err != nil {
		t.Fatalf("RunCLI: %v", err)
	}
	if out.Text != "hello world" {
		t.Errorf("Text = %q", out.Text)
	}
	if len(out.Segments) != 2 || out.Segments[1].Text != "world" {
		t.Errorf("Segments = %+v", out.Segments)
	}
}

func TestRunCLIRemovesOutputDir(t *testing.T) {
	cli := testutil.FakeWhisperCLI(t)
	audio := stageAudio(t, "clip.wav")

	workDir := t.TempDir()
	var dir string
	_, err := transcription.RunCLI(context.Background(), cli, workDir, audio, func(outDir string) []string {
		dir = outDir
		return cliArgs(audio)(outDir)
	})
	if err != nil {
		t.Fatalf("RunCLI: %v", err)
	}
	if filepath.Dir(dir) != workDir {
		t.Errorf("output dir %s not created under %s", dir, workDir)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected output dir %s removed, stat err = %v", dir, err)
	}
}

func TestRunCLINonZeroExit(t *testing.T) {
	cli := testutil.FakeWhisperCLI(t)
	audio := stageAudio(t, "corrupt.wav")

	_, err := transcription.RunCLI(context.Background(), cli, t.TempDir(), audio, cliArgs(audio))
	var exitErr *process.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *process.ExitError, got %v", err)
	}
	if exitErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d", exitErr.ExitCode)
	}
}

func TestRunCLIMissingOutput(t *testing.T) {
	cli := testutil.FakeWhisperCLI(t)
	audio := stageAudio(t, "silent.wav")

	_, err := transcription.RunCLI(context.Background(), cli, t.TempDir(), audio, cliArgs(audio))
	if !errors.Is(err, transcription.ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestProbeCLI(t *testing.T) {
	cli := testutil.FakeWhisperCLI(t)

	path, err := transcription.ProbeCLI(context.Background(), cli)
	if err != nil {
		t.Fatalf("ProbeCLI: %v", err)
	}
	if path != cli {
		t.Errorf("path = %q, want %q", path, cli)
	}

	if _, err := transcription.ProbeCLI(context.Background(), "whisperd-no-such-binary"); err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestSilenceWAV(t *testing.T) {
	wav := transcription.SilenceWAV(time.Second)

	if string(wav[:4]) != "RIFF" || string(wav[8:16]) != "WAVEfmt " {
		t.Fatalf("bad header %q", wav[:16])
	}
	if len(wav) != 44+16000*2 {
		t.Errorf("len = %d, want one second of 16 kHz 16-bit mono", len(wav))
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); size != 16000*2 {
		t.Errorf("data size = %d", size)
	}
}

type recordingTranscriber struct {
	path, language string
	header         []byte
	err            error
}

func (r *recordingTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	r.path, r.language = audioPath, language
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}
	r.header = data[:4]
	return "", r.err
}

func TestWarmUp(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingTranscriber{}

	if err := transcription.WarmUp(context.Background(), rec, dir); err != nil {
		t.Fatalf("WarmUp: %v", err)
	}
	if filepath.Dir(rec.path) != dir || string(rec.header) != "RIFF" || rec.language != "en" {
		t.Errorf("unexpected warm-up call: path=%s header=%q language=%s", rec.path, rec.header, rec.language)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("warm-up clip not removed: %v", entries)
	}
}

func TestWarmUpReturnsBackendError(t *testing.T) {
	boom := errors.New("weights missing")
	err := transcription.WarmUp(context.Background(), &recordingTranscriber{err: boom}, t.TempDir())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}
