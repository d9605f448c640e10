package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventInvocationReceived  EventType = "invocation_received"
	EventWriteCompleted      EventType = "write_completed"
	EventInvocationCompleted EventType = "invocation_completed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Route      string
	Target     string
	Duration   time.Duration
	Success    bool
	StatusCode int
	Failure    string
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventInvocationReceived:
		c.metrics.IncrementInvocations(event.Route)

	case EventWriteCompleted:
		c.metrics.RecordWrite(event.Target, event.Duration, event.Success)

	case EventInvocationCompleted:
		c.metrics.RecordOutcome(event.StatusCode, event.Failure, event.Duration)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
