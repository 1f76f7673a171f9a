package pipeline

import (
	"context"
	"log/slog"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the accumulated crawl
// state from previous steps.
//
// Design decision: We use an interface rather than function types
// because it allows steps to carry configuration state, provides a
// Name() method for logging, and stays extensible.
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and the crawl state to read and extend. Returns an
	// error only for failures fatal to the run; per-file and per-link
	// failures are recorded on the crawl result and return nil.
	Do(ctx context.Context, crawl *Crawl) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline with the given options.
// Steps are added with AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence against the crawl.
// Any step error is fatal to the run and returned immediately; steps
// record recoverable problems on the crawl result instead of failing.
//
// Cancellation is checked before each step. Steps handle their own
// in-flight cancellation: the validation step issues probes with the
// run context so sockets are released promptly.
func (p *Pipeline) Execute(ctx context.Context, crawl *Crawl) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("crawl cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, crawl); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			return err
		}
	}

	return nil
}
