package refiner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/mhmtszr/concurrent-swiss-map"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DefaultWorkerCount is used when no worker count is configured.
const DefaultWorkerCount = 4

// Engine refines a batch of videos with a bounded worker pool while exposing
// progress snapshots for UI consumption. A failing video is logged and
// skipped, it never stops the batch.
type Engine struct {
	refiner     *Refiner
	videos      []*provider.Video
	workerCount int
	logger      *zap.Logger

	outcomes *csmap.CsMap[string, *Outcome]

	summaryMu sync.RWMutex
	summary   Summary

	errorsMu sync.Mutex
	errors   []error
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Refiner     *Refiner
	Videos      []*provider.Video
	WorkerCount int
	Logger      *zap.Logger
}

// Summary captures the state of a batch at a point in time.
type Summary struct {
	TotalItems     int
	ProcessedItems int
	RefinedItems   int
	SkippedItems   int
	ErrorCount     int
	ActiveWorkers  int
	WorkerLimit    int
	LastItem       string
	Done           bool
	Canceled       bool
}

// Event is an update emitted by the engine.
type Event struct {
	Summary Summary
	Err     error
}

// Outcome is the refinement result of one video.
type Outcome struct {
	Video  *provider.Video
	Result *Result
	Err    error
}

// NewEngine constructs an engine with defaults applied.
func NewEngine(cfg EngineConfig) *Engine {
	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		refiner:     cfg.Refiner,
		videos:      cfg.Videos,
		workerCount: workerCount,
		logger:      logger,
		outcomes:    csmap.Create[string, *Outcome](),
		summary: Summary{
			TotalItems:  len(cfg.Videos),
			WorkerLimit: workerCount,
		},
	}
}

// Start begins refinement and returns a stream of progress events. The
// channel is closed when the batch finishes or ctx is canceled.
func (e *Engine) Start(ctx context.Context) <-chan Event {
	events := make(chan Event, 128)
	go e.run(ctx, events)
	return events
}

// Run refines the whole batch and blocks until it is done.
func (e *Engine) Run(ctx context.Context) Summary {
	for range e.Start(ctx) {
	}
	return e.SummarySnapshot()
}

// Outcomes returns the outcome of every processed video keyed by video name.
func (e *Engine) Outcomes() map[string]*Outcome {
	result := make(map[string]*Outcome, e.outcomes.Count())
	e.outcomes.Range(func(key string, value *Outcome) bool {
		result[key] = value
		return false
	})
	return result
}

// Errors returns a copy of the accumulated errors.
func (e *Engine) Errors() []error {
	e.errorsMu.Lock()
	defer e.errorsMu.Unlock()
	if len(e.errors) == 0 {
		return nil
	}
	cloned := make([]error, len(e.errors))
	copy(cloned, e.errors)
	return cloned
}

// SummarySnapshot returns the latest progress summary.
func (e *Engine) SummarySnapshot() Summary {
	e.summaryMu.RLock()
	defer e.summaryMu.RUnlock()
	return e.summary
}

func (e *Engine) run(ctx context.Context, events chan<- Event) {
	defer close(events)

	if e.refiner == nil || len(e.videos) == 0 {
		e.summaryMu.Lock()
		e.summary.Done = true
		e.summaryMu.Unlock()
		e.emit(ctx, events, nil)
		return
	}

	e.emit(ctx, events, nil)

	p := pool.New().WithMaxGoroutines(min(e.workerCount, len(e.videos)))
	for _, video := range e.videos {
		if ctx.Err() != nil {
			break
		}
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			e.setActive(1)
			outcome := e.refineOne(ctx, video)
			e.setActive(-1)
			e.record(outcome)
			e.emit(ctx, events, nil)
		})
	}
	p.Wait()

	e.summaryMu.Lock()
	e.summary.ActiveWorkers = 0
	canceled := ctx.Err() != nil
	e.summary.Canceled = canceled
	e.summary.Done = !canceled
	e.summaryMu.Unlock()

	if !canceled {
		e.emit(ctx, events, nil)
		return
	}
	// After cancellation the final event is only delivered while the buffer has room
	select {
	case events <- Event{Summary: e.SummarySnapshot(), Err: ctx.Err()}:
	default:
	}
}

func (e *Engine) refineOne(ctx context.Context, video *provider.Video) *Outcome {
	result, err := e.refiner.Refine(ctx, video)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		e.logger.Warn("Refinement failed, skipping",
			zap.String("video", video.Name),
			zap.Error(err))
	}
	return &Outcome{Video: video, Result: result, Err: err}
}

func (e *Engine) record(outcome *Outcome) {
	e.outcomes.Store(outcome.Video.Name, outcome)

	errorCount := e.appendError(outcome)

	e.summaryMu.Lock()
	defer e.summaryMu.Unlock()
	e.summary.ProcessedItems++
	e.summary.ErrorCount = errorCount
	e.summary.LastItem = outcome.Video.Label()
	switch {
	case outcome.Err != nil:
	case outcome.Result.Refined():
		e.summary.RefinedItems++
	default:
		e.summary.SkippedItems++
	}
}

func (e *Engine) appendError(outcome *Outcome) int {
	e.errorsMu.Lock()
	defer e.errorsMu.Unlock()

	err := outcome.Err
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		e.errors = append(e.errors, fmt.Errorf("%s: %w", outcome.Video.Name, err))
	}
	return len(e.errors)
}

func (e *Engine) setActive(delta int) {
	e.summaryMu.Lock()
	e.summary.ActiveWorkers += delta
	e.summaryMu.Unlock()
}

func (e *Engine) emit(ctx context.Context, events chan<- Event, err error) {
	summary := e.SummarySnapshot()
	select {
	case events <- Event{Summary: summary, Err: err}:
	case <-ctx.Done():
	}
}
