package compat

import (
	"fmt"
	"log/slog"
	"strings"

	"cdjready/internal/audiometa"
	"cdjready/internal/classify"
	"cdjready/internal/logging"
	"cdjready/internal/planner"
	"cdjready/internal/profiles"
)

// planFunc is the planner entry point. Tests replace it to exercise recovery.
var planFunc = planner.Plan

// Checker evaluates files against device profiles. It holds no mutable state.
type Checker struct {
	logger *slog.Logger
	policy planner.Policy
}

// NewChecker returns a Checker that logs decisions to logger and plans
// conversions with policy. A nil logger discards output.
func NewChecker(logger *slog.Logger, policy planner.Policy) *Checker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Checker{logger: logging.NewComponentLogger(logger, "compat"), policy: policy}
}

var defaultChecker = NewChecker(nil, planner.Policy{})

// Evaluate runs the default checker.
func Evaluate(meta audiometa.AudioMetadata, profile profiles.DeviceProfile) Result {
	return defaultChecker.Evaluate(meta, profile)
}

// Evaluate returns the verdict for meta on profile. It never panics; any
// internal failure becomes a StatusError result.
func (c *Checker) Evaluate(meta audiometa.AudioMetadata, profile profiles.DeviceProfile) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = ErrorResult(meta.Path, meta, profile, r)
			logging.WarnWithContext(c.logger, "compatibility evaluation failed", "evaluation_error",
				logging.String(logging.FieldFile, meta.Path),
				logging.String(logging.FieldProfile, profile.ID),
				logging.Any("panic", r),
				logging.String(logging.FieldErrorHint, "inspect the file with ffprobe"),
				logging.String(logging.FieldImpact, "file reported as error"),
			)
		}
	}()

	result = c.evaluate(meta, profile)
	attrs := logging.DecisionAttrs("compatibility", string(result.Status), result.Message)
	attrs = append(attrs,
		logging.String(logging.FieldFile, meta.Path),
		logging.String(logging.FieldProfile, profile.ID),
		logging.String("category", string(result.Category)),
	)
	if result.Plan != nil {
		attrs = append(attrs, logging.String("plan", result.Plan.Label()))
	}
	c.logger.Debug("compatibility decision", logging.Args(attrs...)...)
	return result
}

func (c *Checker) evaluate(meta audiometa.AudioMetadata, profile profiles.DeviceProfile) Result {
	category := classify.ForMetadata(meta)
	result := Result{
		Path:        meta.Path,
		Metadata:    meta,
		Category:    category,
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
	}

	if format, ok := profile.Format(category); ok {
		issues := parameterIssues(meta, format, profile)
		if len(issues) == 0 {
			result.Status = StatusCompatible
			result.Message = "Ready for " + profile.Name
			return result
		}
		plan := planFunc(meta, profile.Limits(), true, c.policy)
		result.Status = StatusConvertibleLossless
		result.Message = strings.Join(issues, "; ")
		result.Plan = &plan
		return result
	}

	if _, ok := profiles.Convertible(category); ok {
		plan := planFunc(meta, profile.Limits(), !meta.Lossy, c.policy)
		result.Plan = &plan
		if meta.Lossy {
			result.Status = StatusConvertibleLossy
			result.Message = fmt.Sprintf("%s convertible (lossy source)", category)
		} else {
			result.Status = StatusConvertibleLossless
			result.Message = fmt.Sprintf("%s → %s lossless", category, plan.OutputFormat)
		}
		return result
	}

	result.Status = StatusIncompatible
	result.Message = fmt.Sprintf("%s format not supported", category)
	return result
}

// parameterIssues lists why a natively supported format still cannot be
// played with these exact parameters.
func parameterIssues(meta audiometa.AudioMetadata, format profiles.AudioFormat, profile profiles.DeviceProfile) []string {
	var issues []string

	if rate := meta.SampleRate; rate > 0 && !format.AcceptsRate(rate) {
		if profile.MaxSampleRate > 0 && rate > profile.MaxSampleRate {
			issues = append(issues, fmt.Sprintf("%s → max %s", khz(rate), khz(profile.MaxSampleRate)))
		} else {
			issues = append(issues, fmt.Sprintf("%s not supported", khz(rate)))
		}
	}

	// Float samples never match an integer depth set, even at a nominal 24 bits.
	if len(format.BitDepths) > 0 {
		depth := meta.BitDepth
		switch {
		case meta.Float:
			if depth <= 0 {
				depth = 32
			}
			issues = append(issues, fmt.Sprintf("%d-bit float not supported", depth))
		case depth <= 0 || format.AcceptsDepth(depth):
		case profile.MaxBitDepth > 0 && depth > profile.MaxBitDepth:
			issues = append(issues, fmt.Sprintf("%d-bit too high", depth))
		default:
			issues = append(issues, fmt.Sprintf("%d-bit not supported", depth))
		}
	}
	return issues
}

func khz(rate int) string {
	return fmt.Sprintf("%.1fkHz", float64(rate)/1000)
}
