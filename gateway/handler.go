package gateway

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/whisperd/errors"
	"github.com/kbukum/whisperd/logger"
	"github.com/kbukum/whisperd/metrics"
	"github.com/kbukum/whisperd/observability"
	"github.com/kbukum/whisperd/resilience"
	"github.com/kbukum/whisperd/server"
	"github.com/kbukum/whisperd/server/middleware"
	"github.com/kbukum/whisperd/staging"
	"github.com/kbukum/whisperd/transcription"
	"github.com/kbukum/whisperd/util"
)

const operationTranscribe = "transcribe"

// Options wires a Handler. Metrics and Telemetry are optional.
type Options struct {
	ServiceName string
	// Backend names the loaded backend in logs, spans and metric labels.
	Backend   string
	Model     transcription.Transcriber
	Stager    *staging.Stager
	Inference *resilience.Bulkhead
	Metrics   *metrics.Metrics
	Telemetry *observability.Metrics
	Logger    *logger.Logger
}

// Handler runs the transcription request lifecycle.
type Handler struct {
	opts Options
	log  *logger.Logger
}

// NewHandler creates a Handler. A nil Inference bulkhead gets the default
// inference limits.
func NewHandler(opts Options) *Handler {
	if opts.Inference == nil {
		opts.Inference = resilience.NewBulkhead(resilience.DefaultBulkheadConfig("inference"))
	}
	if opts.Stager == nil {
		opts.Stager = staging.New(staging.Config{})
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Handler{opts: opts, log: log.WithComponent("gateway")}
}

// Register mounts the transcription route.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/v1/audio/transcriptions", h.Transcribe)
}

// Transcribe handles POST /v1/audio/transcriptions.
func (h *Handler) Transcribe(c *gin.Context) {
	requestID := c.GetHeader(middleware.HeaderRequestID)
	oc := observability.NewOperationContext(h.opts.ServiceName, operationTranscribe, requestID, h.opts.Backend, h.opts.Telemetry)
	ctx, span := oc.StartSpanForOperation(c.Request.Context(), observability.SpanTranscription)
	log := h.log.WithContext(ctx)

	text, status, err := h.transcribe(ctx, c)
	oc.EndOperation(ctx, span, status, err)

	if err != nil {
		appErr := apperrors.From(err)
		fields := logger.Fields(
			logger.FieldBackend, h.opts.Backend,
			logger.FieldStatus, appErr.HTTPStatus,
			"code", appErr.Code,
			logger.FieldDuration, oc.Duration().Milliseconds(),
		)
		if appErr.Code == apperrors.ErrCodeClientClosed {
			log.Info("Transcription request canceled by client", fields)
			server.RespondWithError(c, appErr)
			return
		}
		if oc.Metrics != nil {
			oc.Metrics.RecordError(ctx, string(appErr.Code))
		}
		log.WithError(err).Error("Transcription request failed", fields)
		server.RespondWithError(c, appErr)
		return
	}
	server.RespondOK(c, TranscriptionResponse{Text: text})
}

// transcribe binds, stages and transcribes one upload. The returned status
// is one of the metrics.Status values.
func (h *Handler) transcribe(ctx context.Context, c *gin.Context) (string, string, error) {
	var form TranscriptionForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return "", metrics.StatusError, apperrors.PayloadTooLarge(tooLarge.Limit)
		}
		return "", metrics.StatusError, apperrors.InvalidUpload(err)
	}
	if form.Model == "" {
		form.Model = DefaultModelName
	}
	filename := util.Truncate(util.SanitizeString(form.File.Filename), 128)

	file, err := h.stage(ctx, &form)
	if err != nil {
		return "", metrics.StatusError, err
	}
	defer func() {
		if rmErr := file.Remove(); rmErr != nil {
			h.log.Warn("Failed to remove staged file", logger.Fields(
				logger.FieldFile, file.Path(),
				logger.FieldError, rmErr.Error(),
			))
		}
	}()

	log := h.log.WithContext(ctx)
	log.Info("Transcribing upload", logger.Fields(
		logger.FieldFile, filename,
		logger.FieldBackend, h.opts.Backend,
		"model", form.Model,
		"language", form.Language,
		"bytes", form.File.Size,
	))

	tctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
	span.SetAttributes(
		attribute.String(observability.AttrBackend, h.opts.Backend),
		attribute.String(observability.AttrLanguage, form.Language),
	)
	defer span.End()

	var inference time.Duration
	text, err := resilience.ExecuteWithResult(h.opts.Inference, tctx, func() (string, error) {
		start := time.Now()
		defer func() { inference = time.Since(start) }()
		return h.opts.Model.Transcribe(tctx, file.Path(), form.Language)
	})
	if err != nil {
		observability.SetSpanError(tctx, err)
		if stderrors.Is(err, resilience.ErrBulkheadFull) || stderrors.Is(err, resilience.ErrBulkheadTimeout) {
			h.recordTranscription(metrics.StatusRejected, 0)
			return "", metrics.StatusRejected, apperrors.ServiceUnavailable("All inference slots are busy, retry later")
		}
		if stderrors.Is(ctx.Err(), context.Canceled) {
			h.recordTranscription(metrics.StatusCanceled, inference)
			return "", metrics.StatusCanceled, apperrors.ClientClosed(err)
		}
		h.recordTranscription(metrics.StatusError, inference)
		if _, ok := apperrors.AsAppError(err); ok {
			return "", metrics.StatusError, err
		}
		return "", metrics.StatusError, apperrors.TranscriptionFailed(h.opts.Backend, err)
	}
	h.recordTranscription(metrics.StatusSuccess, inference)

	log.Info("Transcription served", logger.Fields(
		logger.FieldFile, filename,
		logger.FieldBackend, h.opts.Backend,
		logger.FieldDuration, inference.Milliseconds(),
		"chars", len(text),
	))
	return text, metrics.StatusSuccess, nil
}

func (h *Handler) stage(ctx context.Context, form *TranscriptionForm) (*staging.File, error) {
	_, span := observability.StartSpan(ctx, observability.SpanStage)
	defer span.End()
	span.SetAttributes(attribute.Int64(observability.AttrAudioBytes, form.File.Size))

	src, err := form.File.Open()
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.InvalidUpload(err)
	}
	defer src.Close()

	file, err := h.opts.Stager.Stage(src, form.File.Filename)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.StagingFailed(err)
	}

	if h.opts.Metrics != nil {
		h.opts.Metrics.RecordUpload(form.File.Size)
	}
	if h.opts.Telemetry != nil {
		h.opts.Telemetry.RecordStaged(ctx, form.File.Size)
	}
	return file, nil
}

func (h *Handler) recordTranscription(status string, d time.Duration) {
	if h.opts.Metrics != nil {
		h.opts.Metrics.RecordTranscription(h.opts.Backend, status, d)
	}
}
