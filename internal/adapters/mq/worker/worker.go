// Package worker runs the parallel fixture-simulation pool.
//
// Each worker pulls prepared jobs off the queue and resolves them with
// the match engine. Every job carries its own pre-derived seed, so the
// pool may execute fixtures in any order and on any number of workers
// without changing a single result; the collector restores matchday
// order by job index before handing results back.
package worker

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/calcio/internal/adapters/mq/queue"
	"github.com/okian/calcio/internal/domain/match"
	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/internal/domain/rng"
	"github.com/okian/calcio/internal/domain/season"
	"github.com/okian/calcio/pkg/logger"
	"github.com/okian/calcio/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// Simulator resolves one prepared fixture. *match.Engine satisfies it.
type Simulator interface {
	Simulate(ctx context.Context, p match.Params) (*model.MatchResult, error)
}

// Queue defines how workers receive items.
type Queue interface {
	Enqueue(ctx context.Context, item queue.Item) bool
	Dequeue(ctx context.Context) <-chan queue.Item
	Close() error
}

// Worker simulates fixtures pulled from the queue.
type Worker struct {
	queue Queue
	sim   Simulator
	name  string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name used for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates one simulation worker.
func NewWorker(q Queue, sim Simulator, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		sim:      sim,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop until the context is cancelled, the queue
// closes, or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case item, ok := <-items:
			if !ok {
				return
			}
			w.process(ctx, item)
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight job.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return ctx.Err()
	}
}

// process simulates one item and reports its outcome.
func (w *Worker) process(ctx context.Context, item queue.Item) {
	start := time.Now()
	res, err := w.sim.Simulate(ctx, match.Params{
		Fixture: item.Job.Fixture,
		Home:    item.Job.Home,
		Away:    item.Job.Away,
		Weather: item.Job.Weather,
		Referee: item.Job.Referee,
		Stream:  rng.New(item.Job.Seed),
	})
	metrics.RecordMatchSimLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		w.logger.Error(ctx, "fixture simulation failed",
			logger.String("home", item.Job.Fixture.Home),
			logger.String("away", item.Job.Fixture.Away),
			logger.Error(err))
	} else {
		cards, injuries := 0, 0
		for _, ev := range res.Events {
			switch ev.Type {
			case model.EventYellowCard, model.EventRedCard:
				cards++
			case model.EventInjury:
				injuries++
			}
		}
		metrics.RecordMatchSimulated(res.HomeGoals+res.AwayGoals, cards, injuries)
	}

	select {
	case item.Out <- queue.Outcome{Index: item.Index, Result: res, Err: err}:
	case <-ctx.Done():
	}
}

// Pool fans a matchday's fixtures across several workers. It implements
// the orchestrator's Runner contract.
type Pool struct {
	workers []*Worker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates and sizes the worker pool. A non-positive count uses
// one worker per CPU.
func NewPool(workerCount int, q Queue, sim Simulator) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, sim, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateFixtureWorkers(workerCount)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Run enqueues a matchday's jobs, waits for all outcomes and returns the
// results in job order.
func (p *Pool) Run(ctx context.Context, jobs []season.Job) ([]*model.MatchResult, error) {
	out := make(chan queue.Outcome, len(jobs))
	for i, job := range jobs {
		if !p.queue.Enqueue(ctx, queue.Item{Index: i, Job: job, Out: out}) {
			return nil, ErrEnqueueFailed
		}
	}

	results := make([]*model.MatchResult, len(jobs))
	var firstErr error
	for range jobs {
		select {
		case outcome := <-out:
			if outcome.Err != nil && firstErr == nil {
				firstErr = outcome.Err
			}
			results[outcome.Index] = outcome.Result
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// Shutdown closes the queue and stops every worker.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, workerShutdownTimeout)
	defer cancel()
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateFixtureWorkers(0)
	return nil
}
