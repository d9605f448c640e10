package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/angeloszaimis/guid-writer/config"
	"github.com/angeloszaimis/guid-writer/internal/identifier"
	"github.com/angeloszaimis/guid-writer/internal/metrics"
	"github.com/angeloszaimis/guid-writer/internal/store"
	"github.com/angeloszaimis/guid-writer/pkg/logger"
)

type Handler struct {
	logger           *slog.Logger
	storage          config.StorageConfig
	configErr        error
	objects          store.ObjectWriter
	records          store.RecordWriter
	generate         identifier.Generator
	metricsCollector *metrics.Collector
}

type Option func(*Handler)

func WithGenerator(g identifier.Generator) Option {
	return func(h *Handler) {
		h.generate = g
	}
}

func WithCollector(c *metrics.Collector) Option {
	return func(h *Handler) {
		h.metricsCollector = c
	}
}

// invocationEvent picks the routing field out of an arbitrary payload.
type invocationEvent struct {
	Resource string `json:"resource"`
}

// New validates the storage targets once. A handler with missing targets is
// still usable: the health route works and the write path reports the
// problem.
func New(logger *slog.Logger, storage config.StorageConfig, objects store.ObjectWriter, records store.RecordWriter, opts ...Option) *Handler {
	h := &Handler{
		logger:    logger,
		storage:   storage,
		configErr: storage.ValidateTargets(),
		objects:   objects,
		records:   records,
		generate:  identifier.New,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.configErr != nil {
		logger.Warn("Storage targets not configured, write path disabled",
			slog.String("error", h.configErr.Error()))
	}

	return h
}

// Handle serves one invocation. The error result is always nil: failures are
// reported in the response so the runtime never sees an unhandled fault.
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) (events.APIGatewayProxyResponse, error) {
	start := time.Now()
	route := RouteFor(resourceOf(payload))

	log := logger.FromLambdaContext(ctx, h.logger).With(slog.String("route", route.String()))

	h.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventInvocationReceived,
		Timestamp: start,
		Route:     route.String(),
	})

	var (
		resp    events.APIGatewayProxyResponse
		id      string
		failure *Failure
	)

	switch route {
	case RouteHealth:
		resp = healthy()
	case RouteDefault:
		id, failure = h.write(ctx, log)
		if failure != nil {
			resp = failed(failure)
		} else {
			resp = created(id)
		}
	}

	duration := time.Since(start)
	completed := metrics.MetricEvent{
		Type:       metrics.EventInvocationCompleted,
		Timestamp:  time.Now(),
		Route:      route.String(),
		Duration:   duration,
		StatusCode: resp.StatusCode,
	}

	attrs := []any{
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	}
	if id != "" {
		attrs = append(attrs, slog.String("id", id))
	}

	if failure != nil {
		completed.Failure = failure.Kind.String()
		attrs = append(attrs, slog.String("failure", failure.Kind.String()))
		log.Warn("Invocation failed", attrs...)
	} else {
		log.Info("Invocation completed", attrs...)
	}

	h.emitEvent(completed)

	return resp, nil
}

// write runs the write path: object first, then record. The first failure
// ends the invocation.
func (h *Handler) write(ctx context.Context, log *slog.Logger) (string, *Failure) {
	if h.configErr != nil {
		return "", &Failure{Kind: FailureConfigMissing, Err: h.configErr}
	}

	id := h.generate()
	key := identifier.ObjectKey(id)

	start := time.Now()
	err := h.objects.PutObject(ctx, h.storage.Bucket, key, []byte(id))
	h.emitWrite(store.TargetS3, start, err)
	if err != nil {
		log.Error("Failed to write object",
			append(remoteAttrs(err),
				slog.String("bucket", h.storage.Bucket),
				slog.String("key", key))...)
		return id, &Failure{Kind: FailureObjectStoreWrite, Err: err}
	}

	start = time.Now()
	err = h.records.PutRecord(ctx, h.storage.Table, store.Record{ID: id})
	h.emitWrite(store.TargetDynamoDB, start, err)
	if err != nil {
		log.Error("Failed to write record",
			append(remoteAttrs(err),
				slog.String("table", h.storage.Table),
				slog.String("id", id))...)
		h.rollback(ctx, log, key)
		return id, &Failure{Kind: FailureTableWrite, Err: err}
	}

	return id, nil
}

// rollback removes the object of a failed invocation when enabled. Without
// it the object stays behind with no matching record.
func (h *Handler) rollback(ctx context.Context, log *slog.Logger, key string) {
	if !h.storage.RollbackOnTableFailure {
		log.Warn("Object left without a record", slog.String("key", key))
		return
	}

	deleter, ok := h.objects.(store.ObjectDeleter)
	if !ok {
		log.Warn("Rollback enabled but object store cannot delete", slog.String("key", key))
		return
	}

	if err := deleter.DeleteObject(ctx, h.storage.Bucket, key); err != nil {
		log.Error("Failed to roll back object", append(remoteAttrs(err), slog.String("key", key))...)
		return
	}

	log.Info("Rolled back object", slog.String("key", key))
}

func resourceOf(payload json.RawMessage) string {
	var event invocationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ""
	}
	return event.Resource
}

func remoteAttrs(err error) []any {
	attrs := []any{slog.Any("err", err)}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		if storeErr.Code != "" {
			attrs = append(attrs, slog.String("code", storeErr.Code))
		}
		attrs = append(attrs, slog.Bool("unreachable", storeErr.Unreachable()))
	}

	return attrs
}

func (h *Handler) emitWrite(target string, start time.Time, err error) {
	h.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventWriteCompleted,
		Timestamp: time.Now(),
		Target:    target,
		Duration:  time.Since(start),
		Success:   err == nil,
	})
}

func (h *Handler) emitEvent(event metrics.MetricEvent) {
	if h.metricsCollector == nil {
		return
	}

	select {
	case h.metricsCollector.EventChannel() <- event:
	default:
	}
}
