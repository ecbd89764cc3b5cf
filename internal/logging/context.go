package logging

import (
	"context"
	"log/slog"

	"cdjready/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFile is the standardized key for the audio file being processed.
	FieldFile = "file"
	// FieldProfile is the standardized key for the device profile id.
	FieldProfile = "profile"
	// FieldStatus is the standardized key for a compatibility verdict.
	FieldStatus = "status"
	// FieldStage is the standardized key for pipeline stage names.
	FieldStage = "stage"
	// FieldCorrelationID is the standardized key for the per-run correlation identifier.
	FieldCorrelationID = "correlation_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert        = "alert"
	FieldEventType    = "event_type"
	FieldErrorHint    = "error_hint"
	FieldImpact       = "impact"
	FieldDecisionType = "decision_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if file, ok := services.FileFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFile, file))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
