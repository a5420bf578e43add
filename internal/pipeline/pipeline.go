package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/couchcryptid/unit-converter/internal/domain"
	"github.com/couchcryptid/unit-converter/internal/observability"
)

// BatchExtractor reads up to batchSize conversion requests from the source topic.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns a raw request message into a conversion result.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.ConversionResult, error)
}

// BatchLoader publishes conversion results to the result topic.
type BatchLoader interface {
	LoadBatch(ctx context.Context, results []domain.ConversionResult) error
}

const (
	transport = "stream"

	initialBackoff  = 200 * time.Millisecond
	maxBackoffDelay = 5 * time.Second
)

// Pipeline consumes conversion requests, converts them, and publishes the
// results. Publishing is retried until it succeeds; rejected requests are
// logged, counted, and committed with their batch so they are not
// redelivered.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has published at least one
// result.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("stream pipeline has not published any results yet")
	}
	return nil
}

// Run consumes batches until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("stream pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for ctx.Err() == nil {
		if !p.processBatch(ctx, &backoff) {
			break
		}
	}

	p.logger.Info("stream pipeline stopping", "reason", ctx.Err())
	return nil
}

// processBatch runs one extract-convert-publish-commit cycle. Returns false
// if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.wait(ctx, backoff)
	}
	*backoff = initialBackoff
	if len(rawBatch) == 0 {
		return true
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))

	results := p.convert(ctx, rawBatch)
	if len(results) > 0 {
		if !p.publish(ctx, results, backoff) {
			return false
		}
		p.metrics.MessagesProduced.Add(float64(len(results)))
		for _, res := range results {
			p.metrics.Conversions.WithLabelValues(res.Category, transport).Inc()
		}
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}

	// Offsets are committed in fetch order and only once the batch is
	// published, so the group never moves past an unpublished request.
	for _, raw := range rawBatch {
		p.commitOffset(ctx, raw)
	}
	return true
}

// convert runs every request in the batch through the transformer. Rejected
// requests are logged and counted; they are committed with the rest of the
// batch.
func (p *Pipeline) convert(ctx context.Context, rawBatch []domain.RawEvent) []domain.ConversionResult {
	results := make([]domain.ConversionResult, 0, len(rawBatch))
	for _, raw := range rawBatch {
		res, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			reason := domain.ErrorReason(err)
			p.logger.Warn("conversion rejected, skipping message",
				"error", err,
				"reason", reason,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.ConversionErrors.WithLabelValues(transport, reason).Inc()
			continue
		}
		results = append(results, res)
	}
	return results
}

// publish retries LoadBatch with backoff until it succeeds. Returns false if
// the context is cancelled first.
func (p *Pipeline) publish(ctx context.Context, results []domain.ConversionResult, backoff *time.Duration) bool {
	for attempt := 1; ; attempt++ {
		err := p.loader.LoadBatch(ctx, results)
		if err == nil {
			*backoff = initialBackoff
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("publish batch failed, retrying",
			"error", err,
			"batch_size", len(results),
			"attempt", attempt,
			"backoff", *backoff,
		)
		if !p.wait(ctx, backoff) {
			return false
		}
	}
}

// wait sleeps for the current backoff and doubles it. Returns false if the
// context is cancelled while waiting.
func (p *Pipeline) wait(ctx context.Context, backoff *time.Duration) bool {
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoffDelay)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
