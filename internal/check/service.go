// Package check probes audio files and evaluates them against a device
// profile. Probe failures are isolated per file and reported as ERROR
// results; only cancellation aborts a run.
package check

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cdjready/internal/audiometa"
	"cdjready/internal/compat"
	"cdjready/internal/config"
	"cdjready/internal/logging"
	"cdjready/internal/metrics"
	"cdjready/internal/planner"
	"cdjready/internal/profiles"
	"cdjready/internal/services"
)

// Service runs compatibility checks.
type Service struct {
	FFprobe      string
	ProbeTimeout time.Duration
	Workers      int
	Checker      *compat.Checker
	Metrics      *metrics.Recorder
	Logger       *slog.Logger
}

// NewService builds a Service from configuration.
func NewService(cfg *config.Config, checker *compat.Checker, recorder *metrics.Recorder, logger *slog.Logger) *Service {
	if checker == nil {
		checker = compat.NewChecker(logger, PolicyFromConfig(cfg))
	}
	s := &Service{
		Checker: checker,
		Metrics: recorder,
		Logger:  logging.NewComponentLogger(logger, "check"),
	}
	if cfg != nil {
		s.FFprobe = cfg.FFprobeBinary()
		s.ProbeTimeout = time.Duration(cfg.Probe.TimeoutSeconds) * time.Second
		s.Workers = cfg.Convert.Workers
	}
	return s
}

// PolicyFromConfig returns the planner policy selected by cfg.
func PolicyFromConfig(cfg *config.Config) planner.Policy {
	if cfg == nil {
		return planner.Policy{}
	}
	return planner.Policy{PreferNativeLossless: cfg.Convert.PreferNativeLossless}
}

// Check probes and evaluates every file. Results are returned in input order.
// The returned error is non-nil only when ctx is cancelled; results for the
// files processed so far are still returned.
func (s *Service) Check(ctx context.Context, files []string, profile profiles.DeviceProfile) ([]compat.Result, error) {
	results := make([]compat.Result, len(files))
	if len(files) == 0 {
		return results, nil
	}
	logger := logging.WithContext(ctx, s.logger())
	checker := s.Checker
	if checker == nil {
		checker = compat.NewChecker(logger, planner.Policy{})
	}

	var (
		mu      sync.Mutex
		done    int
		sampler = logging.NewProgressSampler(10)
	)
	g := new(errgroup.Group)
	g.SetLimit(config.ClampWorkers(s.Workers))
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = s.checkOne(ctx, checker, path, profile)
			s.Metrics.RecordCheck(string(results[i].Status))

			mu.Lock()
			done++
			if sampler.ShouldLog(done, len(files)) {
				logger.Info("check progress",
					logging.Int("done", done),
					logging.Int("total", len(files)),
					logging.String(logging.FieldProfile, profile.ID),
				)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (s *Service) checkOne(ctx context.Context, checker *compat.Checker, path string, profile profiles.DeviceProfile) compat.Result {
	fileCtx := services.WithFile(ctx, path)
	meta, err := audiometa.Probe(fileCtx, s.FFprobe, path, s.ProbeTimeout)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(fileCtx, s.logger()), "probe failed", "probe_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the file opens with ffprobe"),
			logging.String(logging.FieldImpact, "file reported as error"),
		)
		fallback := audiometa.AudioMetadata{Path: path, Filename: filepath.Base(path)}
		return compat.ErrorResult(path, fallback, profile, err)
	}
	return checker.Evaluate(meta, profile)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}
