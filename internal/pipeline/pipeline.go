package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/bufkit-etl/internal/domain"
	"github.com/couchcryptid/bufkit-etl/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// BatchExtractor reads up to batchSize raw files from the source. A finite
// source returns io.EOF once it is drained.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns one raw file into its merged soundings.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.ParsedFile, error)
}

// BatchLoader writes soundings to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, soundings []domain.Sounding) error
}

// Stats counts what a pipeline has done since it was created. Files and
// FailedFiles count files that reached a final outcome; a file whose soundings
// the sink rejected is counted in LoadFailedFiles instead, once per attempt.
type Stats struct {
	Files           int64
	FailedFiles     int64
	LoadFailedFiles int64
	Soundings       int64
	SkippedRows     int64
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int

	files           atomic.Int64
	failedFiles     atomic.Int64
	loadFailedFiles atomic.Int64
	soundings       atomic.Int64
	skippedRows     atomic.Int64
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

// CheckReadiness returns nil once the pipeline has loaded at least one file.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any files yet")
	}
	return nil
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Files:           p.files.Load(),
		FailedFiles:     p.failedFiles.Load(),
		LoadFailedFiles: p.loadFailedFiles.Load(),
		Soundings:       p.soundings.Load(),
		SkippedRows:     p.skippedRows.Load(),
	}
}

// Run executes the batch ETL loop until the context is cancelled or the
// extractor reports io.EOF.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if errors.Is(err, io.EOF) {
		s := p.Stats()
		p.logger.Info("source drained",
			"files", s.Files,
			"failed_files", s.FailedFiles,
			"load_failed_files", s.LoadFailedFiles,
			"soundings", s.Soundings,
		)
		return false
	}
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.FilesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// transformAndLoad parses each file in the batch, loads the soundings of every
// file that parsed, and commits offsets. A file that fails to parse is logged,
// counted, and committed so it is not redelivered. Returns the number of files
// loaded and false if the pipeline should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawEvent, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	var soundings []domain.Sounding
	parsedRaws := make([]domain.RawEvent, 0, len(rawBatch))
	var skipped int

	for _, raw := range rawBatch {
		parsed, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("parse failed, skipping file",
				"error", err,
				"file", domain.SourceName(raw),
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.files.Add(1)
			p.failedFiles.Add(1)
			p.metrics.ParseErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		if parsed.SkippedRows > 0 {
			p.logger.Debug("surface rows skipped", "file", parsed.Source, "rows", parsed.SkippedRows)
		}
		skipped += parsed.SkippedRows
		soundings = append(soundings, parsed.Soundings...)
		parsedRaws = append(parsedRaws, raw)
	}

	if len(parsedRaws) == 0 {
		return 0, true
	}

	if len(soundings) > 0 {
		if err := p.loader.LoadBatch(ctx, soundings); err != nil {
			p.logger.Error("load batch failed", "error", err, "files", len(parsedRaws), "soundings", len(soundings))
			p.loadFailedFiles.Add(int64(len(parsedRaws)))
			p.metrics.LoadErrors.Inc()
			return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
		}
	}

	p.metrics.SoundingsProduced.Add(float64(len(soundings)))
	p.metrics.SurfaceRowsSkipped.Add(float64(skipped))
	p.files.Add(int64(len(parsedRaws)))
	p.soundings.Add(int64(len(soundings)))
	p.skippedRows.Add(int64(skipped))

	for _, raw := range parsedRaws {
		p.commitOffset(ctx, raw)
	}

	return len(parsedRaws), true
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
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
