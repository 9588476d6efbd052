package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/whisperd/errors"
	"github.com/kbukum/whisperd/gateway"
	"github.com/kbukum/whisperd/logger"
	"github.com/kbukum/whisperd/metrics"
	"github.com/kbukum/whisperd/resilience"
	"github.com/kbukum/whisperd/server"
	servertest "github.com/kbukum/whisperd/server/testutil"
	"github.com/kbukum/whisperd/staging"
	whispertest "github.com/kbukum/whisperd/testutil"
	"github.com/kbukum/whisperd/testutil/fixtures"
	"github.com/kbukum/whisperd/transcription"
	"github.com/kbukum/whisperd/transcription/fasterwhisper"
)

const transcriptionsPath = "/v1/audio/transcriptions"

type gatewayEnv struct {
	handler  http.Handler
	stageDir string
	metrics  *metrics.Metrics
}

func newGateway(t *testing.T, model transcription.Transcriber, configure ...func(*gateway.Options)) *gatewayEnv {
	t.Helper()
	env := &gatewayEnv{stageDir: t.TempDir(), metrics: metrics.New()}
	opts := gateway.Options{
		ServiceName: "whisperd-test",
		Backend:     "stub",
		Model:       model,
		Stager:      staging.New(staging.Config{Dir: env.stageDir}),
		Metrics:     env.metrics,
		Logger:      logger.NewWithWriter(io.Discard, "test"),
	}
	for _, fn := range configure {
		fn(&opts)
	}

	comp := servertest.NewComponent()
	gateway.NewHandler(opts).Register(comp.GinEngine())
	env.handler = comp.Server().Handler()
	return env
}

func (e *gatewayEnv) post(t *testing.T, filename string, audio []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, whispertest.NewUploadRequest(t, transcriptionsPath, filename, audio, fields))
	return rr
}

func (e *gatewayEnv) requireNoStagedFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(e.stageDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged files must be removed")
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

func TestTranscribe_SampleReturnsText(t *testing.T) {
	stub := whispertest.NewStubTranscriber("hello world")
	env := newGateway(t, stub)
	audio := fixtures.SampleWAV()

	rr := env.post(t, "sample.wav", audio, nil)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"text":"hello world"}`, rr.Body.String())

	call := stub.LastCall()
	assert.Equal(t, audio, call.Audio, "backend must see the uploaded bytes")
	assert.Equal(t, ".wav", staging.Extension(call.AudioPath))
	assert.Empty(t, call.Language)
	assert.NoFileExists(t, call.AudioPath)
	env.requireNoStagedFiles(t)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.TranscriptionsTotal.WithLabelValues("stub", metrics.StatusSuccess)))
}

func TestTranscribe_ForwardsLanguageAndKeepsExtension(t *testing.T) {
	stub := whispertest.NewStubTranscriber("bonjour")
	env := newGateway(t, stub)

	rr := env.post(t, "clip.mp3", fixtures.SampleWAV(), map[string]string{
		"model":    "whisper-1",
		"language": "fr",
	})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	call := stub.LastCall()
	assert.Equal(t, "fr", call.Language)
	assert.Equal(t, ".mp3", staging.Extension(call.AudioPath))
}

func TestTranscribe_IdenticalInputIdenticalOutput(t *testing.T) {
	env := newGateway(t, whispertest.NewStubTranscriber("the same words"))
	audio := fixtures.SampleWAV()

	first := env.post(t, "a.wav", audio, nil)
	second := env.post(t, "a.wav", audio, nil)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestTranscribe_BackendFailureIsServerError(t *testing.T) {
	stub := whispertest.NewStubTranscriber("")
	stub.Err = errors.New("decoder exploded")
	env := newGateway(t, stub)

	rr := env.post(t, "sample.wav", fixtures.SampleWAV(), nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, apperrors.TypeServerError, body.Error.Type)
	assert.Contains(t, body.Error.Message, "decoder exploded")
	assert.NoFileExists(t, stub.LastCall().AudioPath)
	env.requireNoStagedFiles(t)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.TranscriptionsTotal.WithLabelValues("stub", metrics.StatusError)))
}

func TestTranscribe_MissingFileIsServerError(t *testing.T) {
	stub := whispertest.NewStubTranscriber("unused")
	env := newGateway(t, stub)

	rr := env.post(t, "", nil, map[string]string{"model": "whisper-1"})

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, apperrors.TypeServerError, decodeError(t, rr).Error.Type)
	assert.Empty(t, stub.Calls())
	env.requireNoStagedFiles(t)
}

func TestTranscribe_RejectsMalformedLanguage(t *testing.T) {
	stub := whispertest.NewStubTranscriber("unused")
	env := newGateway(t, stub)

	rr := env.post(t, "sample.wav", fixtures.SampleWAV(), map[string]string{
		"language": "this-language-code-is-far-too-long-to-be-real",
	})

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, stub.Calls())
}

func TestTranscribe_UnloadedModelIsServerError(t *testing.T) {
	cfg := transcription.Config{Backend: fasterwhisper.ProviderName}
	cfg.ApplyDefaults()
	model := transcription.NewModel(fasterwhisper.NewProvider(cfg), cfg, logger.NewWithWriter(io.Discard, "test"))
	env := newGateway(t, model)

	rr := env.post(t, "sample.wav", fixtures.SampleWAV(), nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, decodeError(t, rr).Error.Message, "not loaded")
	env.requireNoStagedFiles(t)
}

type panickingTranscriber struct{ seen string }

func (p *panickingTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	p.seen = audioPath
	panic("backend crashed")
}

func TestTranscribe_PanicIsServerErrorAndCleansUp(t *testing.T) {
	backend := &panickingTranscriber{}
	env := newGateway(t, backend)

	rr := env.post(t, "sample.wav", fixtures.SampleWAV(), nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, apperrors.TypeServerError, decodeError(t, rr).Error.Type)
	require.NotEmpty(t, backend.seen)
	assert.NoFileExists(t, backend.seen)
	env.requireNoStagedFiles(t)
}

func TestTranscribe_BusyInferenceIsUnavailable(t *testing.T) {
	stub := whispertest.NewStubTranscriber("done")
	stub.Block = make(chan struct{})
	stub.Entered = make(chan struct{}, 1)
	env := newGateway(t, stub, func(o *gateway.Options) {
		o.Inference = resilience.NewBulkhead(resilience.BulkheadConfig{Name: "inference", MaxConcurrent: 1})
	})

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = env.post(t, "first.wav", fixtures.SampleWAV(), nil)
	}()
	<-stub.Entered

	rr := env.post(t, "second.wav", fixtures.SampleWAV(), nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code, rr.Body.String())
	assert.Equal(t, apperrors.TypeServerError, decodeError(t, rr).Error.Type)

	close(stub.Block)
	wg.Wait()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Len(t, stub.Calls(), 1)
	env.requireNoStagedFiles(t)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.TranscriptionsTotal.WithLabelValues("stub", metrics.StatusRejected)))
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTranscribe_ClientCanceledWhileQueued(t *testing.T) {
	stub := whispertest.NewStubTranscriber("done")
	stub.Block = make(chan struct{})
	stub.Entered = make(chan struct{}, 1)
	inference := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "inference", MaxConcurrent: 1, MaxWait: time.Minute})
	var logs lockedBuffer
	env := newGateway(t, stub, func(o *gateway.Options) {
		o.Inference = inference
		o.Logger = logger.NewWithWriter(&logs, "test")
	})

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = env.post(t, "first.wav", fixtures.SampleWAV(), nil)
	}()
	<-stub.Entered

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := whispertest.NewUploadRequest(t, transcriptionsPath, "second.wav", fixtures.SampleWAV(), nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		env.handler.ServeHTTP(rr, req)
	}()

	require.Eventually(t, func() bool { return inference.Waiting() == 1 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("queued request did not return after cancel")
	}

	assert.Equal(t, apperrors.StatusClientClosedRequest, rr.Code, rr.Body.String())
	assert.Equal(t, apperrors.TypeServerError, decodeError(t, rr).Error.Type)

	close(stub.Block)
	wg.Wait()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Len(t, stub.Calls(), 1, "canceled request must never reach the backend")
	env.requireNoStagedFiles(t)

	total := env.metrics.TranscriptionsTotal
	assert.Equal(t, 1.0, testutil.ToFloat64(total.WithLabelValues("stub", metrics.StatusCanceled)))
	assert.Equal(t, 0.0, testutil.ToFloat64(total.WithLabelValues("stub", metrics.StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(total.WithLabelValues("stub", metrics.StatusSuccess)))

	out := logs.String()
	assert.Contains(t, out, "Transcription request canceled by client")
	assert.NotContains(t, out, `"level":"error"`)
}

func TestTranscribe_OversizedBodyIsRejected(t *testing.T) {
	stub := whispertest.NewStubTranscriber("unused")
	stageDir := t.TempDir()

	cfg := server.Config{Host: "127.0.0.1", MaxBodySize: "1KB"}
	cfg.ApplyDefaults()
	srv := server.New(cfg, logger.NewWithWriter(io.Discard, "test"))
	srv.ApplyMiddleware()
	gateway.NewHandler(gateway.Options{
		Backend: "stub",
		Model:   stub,
		Stager:  staging.New(staging.Config{Dir: stageDir}),
		Logger:  logger.NewWithWriter(io.Discard, "test"),
	}).Register(srv.GinEngine())

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, whispertest.NewUploadRequest(t, transcriptionsPath, "big.wav", make([]byte, 8<<10), nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code, rr.Body.String())
	assert.Empty(t, stub.Calls())
	entries, err := os.ReadDir(stageDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTranscribe_WithCLIBackend(t *testing.T) {
	cfg := transcription.Config{Backend: fasterwhisper.ProviderName, Binary: whispertest.FakeWhisperCLI(t)}
	cfg.ApplyDefaults()
	model := transcription.NewModel(fasterwhisper.NewProvider(cfg), cfg, logger.NewWithWriter(io.Discard, "test"))
	require.NoError(t, model.Start(context.Background()))

	env := newGateway(t, model, func(o *gateway.Options) { o.Backend = fasterwhisper.ProviderName })

	t.Run("sample", func(t *testing.T) {
		rr := env.post(t, "sample.wav", fixtures.SampleWAV(), nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"text":"hello world"}`, rr.Body.String())
	})

	t.Run("corrupt", func(t *testing.T) {
		rr := env.post(t, "broken.wav", fixtures.CorruptAudio(), nil)
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeError(t, rr)
		assert.Equal(t, apperrors.TypeServerError, body.Error.Type)
		assert.Contains(t, body.Error.Message, "Transcription failed")
	})

	env.requireNoStagedFiles(t)
}
