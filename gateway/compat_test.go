package gateway_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/whisperd/gateway"
	"github.com/kbukum/whisperd/logger"
	"github.com/kbukum/whisperd/metrics"
	servertest "github.com/kbukum/whisperd/server/testutil"
	"github.com/kbukum/whisperd/staging"
	whispertest "github.com/kbukum/whisperd/testutil"
	"github.com/kbukum/whisperd/testutil/fixtures"
	"github.com/kbukum/whisperd/transcription"
)

type loadedModel struct{ transcription.Transcriber }

func (loadedModel) Loaded() bool { return true }

// startGateway runs the full router on a real listener and returns an
// OpenAI client pointed at it.
func startGateway(t *testing.T, stub *whispertest.StubTranscriber) *openai.Client {
	t.Helper()
	comp := servertest.NewComponent()
	comp.Server().RegisterDefaultEndpoints("whisperd-test", loadedModel{stub}, nil, metrics.New().Handler())
	gateway.NewHandler(gateway.Options{
		Backend: "stub",
		Model:   stub,
		Stager:  staging.New(staging.Config{Dir: t.TempDir()}),
		Logger:  logger.NewWithWriter(io.Discard, "test"),
	}).Register(comp.GinEngine())

	whispertest.T(t).Setup(comp)

	cfg := openai.DefaultConfig("sk-local")
	cfg.BaseURL = comp.BaseURL() + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(path, fixtures.SampleWAV(), 0o600))
	return path
}

func TestOpenAIClient_CreateTranscription(t *testing.T) {
	stub := whispertest.NewStubTranscriber("hello world")
	client := startGateway(t, stub)

	resp, err := client.CreateTranscription(context.Background(), openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: writeSample(t),
		Language: "en",
	})

	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Text)
	assert.Equal(t, "en", stub.LastCall().Language)
	assert.Equal(t, fixtures.SampleWAV(), stub.LastCall().Audio)
}

func TestOpenAIClient_TranscriptionErrorEnvelope(t *testing.T) {
	stub := whispertest.NewStubTranscriber("")
	stub.Err = errors.New("model failure")
	client := startGateway(t, stub)

	_, err := client.CreateTranscription(context.Background(), openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: writeSample(t),
	})

	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPStatusCode)
	assert.Equal(t, "server_error", apiErr.Type)
	assert.Contains(t, apiErr.Message, "model failure")
}

func TestOpenAIClient_ListModels(t *testing.T) {
	client := startGateway(t, whispertest.NewStubTranscriber(""))

	list, err := client.ListModels(context.Background())

	require.NoError(t, err)
	require.Len(t, list.Models, 1)
	m := list.Models[0]
	assert.Equal(t, "whisper-1", m.ID)
	assert.Equal(t, "model", m.Object)
	assert.Equal(t, "openai", m.OwnedBy)
	assert.Equal(t, int64(1677610602), m.CreatedAt)
}
