package convert

import (
	"context"
	"log/slog"
	"sync"

	"cdjready/internal/compat"
	"cdjready/internal/config"
	"cdjready/internal/logging"
	"cdjready/internal/metrics"
	"cdjready/internal/planner"
)

// ProgressFunc is called after each completed job with (done, total).
type ProgressFunc func(done, total int)

// JobsFromResults selects results that need conversion. A non-nil override
// replaces every computed plan, keeping only the source rate decision.
func JobsFromResults(results []compat.Result, override *planner.ConversionPlan) []Job {
	jobs := make([]Job, 0, len(results))
	for _, r := range results {
		if !r.NeedsConversion() || r.Plan == nil {
			continue
		}
		plan := *r.Plan
		if override != nil {
			plan = *override
			plan.Resample = r.Metadata.SampleRate != plan.TargetSampleRate
		}
		jobs = append(jobs, Job{Source: r.Path, Metadata: r.Metadata, Plan: plan})
	}
	return jobs
}

// Pool runs conversion jobs on a bounded set of workers.
type Pool struct {
	Transcoder *Transcoder
	Workers    int
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
}

// NewPool builds a pool with the configured worker count.
func NewPool(cfg *config.Config, transcoder *Transcoder, recorder *metrics.Recorder, logger *slog.Logger) *Pool {
	workers := 0
	if cfg != nil {
		workers = cfg.Convert.Workers
	}
	return &Pool{
		Transcoder: transcoder,
		Workers:    workers,
		Metrics:    recorder,
		Logger:     logging.NewComponentLogger(logger, "convert-pool"),
	}
}

// Run converts jobs and returns one outcome per job in completion order.
// Jobs not yet started when ctx is cancelled report KindCancelled.
func (p *Pool) Run(ctx context.Context, jobs []Job, progress ProgressFunc) []Outcome {
	total := len(jobs)
	outcomes := make([]Outcome, 0, total)
	if total == 0 {
		return outcomes
	}

	workers := config.ClampWorkers(p.Workers)
	logger := p.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("conversion batch started",
		logging.Int("jobs", total),
		logging.Int("workers", workers),
	)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sampler = logging.NewProgressSampler(10)
	)
	record := func(outcome Outcome) {
		p.observe(outcome)
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, outcome)
		done := len(outcomes)
		if sampler.ShouldLog(done, total) {
			logger.Info("conversion progress", logging.Int("done", done), logging.Int("total", total))
		}
		if progress != nil {
			progress(done, total)
		}
	}

	slots := make(chan struct{}, workers)
	for i, job := range jobs {
		select {
		case <-ctx.Done():
		case slots <- struct{}{}:
		}
		if ctx.Err() != nil {
			for _, skipped := range jobs[i:] {
				record(cancelledOutcome(skipped, ctx.Err()))
			}
			break
		}
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			defer func() { <-slots }()
			record(p.Transcoder.Convert(ctx, job))
		}(job)
	}
	wg.Wait()

	summary := Summarize(outcomes)
	summaryAttrs := []logging.Attr{
		logging.Int("successful", summary.Successful),
		logging.Int("failed", summary.Failed),
	}
	if summary.Failed > 0 {
		summaryAttrs = append(summaryAttrs, logging.Alert("conversion_failures"))
	}
	logger.Info("conversion batch finished", logging.Args(summaryAttrs...)...)
	return outcomes
}

func (p *Pool) observe(outcome Outcome) {
	if outcome.Success {
		p.Metrics.RecordConversionSuccess(outcome.Duration)
		return
	}
	p.Metrics.RecordConversionFailure(string(outcome.Kind), outcome.Duration)
}

func cancelledOutcome(job Job, err error) Outcome {
	convErr := &ConversionError{Kind: KindCancelled, Err: err}
	return Outcome{
		Source:  job.Source,
		Plan:    job.Plan,
		Kind:    KindCancelled,
		Message: convErr.Message(),
		Err:     convErr,
	}
}
