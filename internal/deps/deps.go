package deps

import (
	"context"
	"strings"
)

// Requirement defines an external dependency cdjready relies on.
type Requirement struct {
	Name        string
	Command     string
	EnvVar      string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Source      string `json:"source,omitempty"`
	Version     string `json:"version,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// CheckBinaries resolves each requirement against binDir and reports availability.
func CheckBinaries(ctx context.Context, requirements []Requirement, binDir string) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := ResolveBinary(ctx, cmd, req.EnvVar, binDir)
		if err != nil {
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Command = resolved.Path
		status.Source = string(resolved.Source)
		status.Version = resolved.Version
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
