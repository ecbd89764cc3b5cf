package compat

import (
	"fmt"

	"cdjready/internal/audiometa"
	"cdjready/internal/classify"
	"cdjready/internal/planner"
	"cdjready/internal/profiles"
	"cdjready/internal/textutil"
)

// maxErrorDetail caps the diagnostic carried by error results.
const maxErrorDetail = 60

// Result is the outcome of evaluating one file against one profile.
// Plan is set if and only if Status is convertible.
type Result struct {
	Path        string                  `json:"path"`
	Metadata    audiometa.AudioMetadata `json:"metadata"`
	Category    classify.Category       `json:"category"`
	Status      Status                  `json:"status"`
	Message     string                  `json:"message"`
	ProfileID   string                  `json:"profile_id"`
	ProfileName string                  `json:"profile_name"`
	Plan        *planner.ConversionPlan `json:"conversion_plan,omitempty"`
}

// IsCompatible reports whether the file plays as-is.
func (r Result) IsCompatible() bool { return r.Status == StatusCompatible }

// NeedsConversion reports whether the file has a conversion plan.
func (r Result) NeedsConversion() bool { return r.Status.Convertible() }

// ErrorResult builds the ERROR verdict for a file that could not be evaluated.
func ErrorResult(path string, meta audiometa.AudioMetadata, profile profiles.DeviceProfile, cause any) Result {
	return Result{
		Path:        path,
		Metadata:    meta,
		Category:    classify.Unknown,
		Status:      StatusError,
		Message:     "Error: " + textutil.Truncate(fmt.Sprint(cause), maxErrorDetail),
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
	}
}
