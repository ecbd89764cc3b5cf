package convert

import (
	"errors"
	"fmt"
	"strings"

	"cdjready/internal/textutil"
)

// FailureKind classifies why a conversion failed.
type FailureKind string

const (
	KindCorruptedInput     FailureKind = "corrupted_input"
	KindPermissionDenied   FailureKind = "permission_denied"
	KindMissingInput       FailureKind = "missing_input"
	KindUnsupportedCodec   FailureKind = "unsupported_codec"
	KindDecodeError        FailureKind = "decode_error"
	KindResourceExhausted  FailureKind = "resource_exhausted"
	KindDiskFull           FailureKind = "disk_full"
	KindTimeout            FailureKind = "timeout"
	KindVerificationFailed FailureKind = "verification_failed"
	KindCancelled          FailureKind = "cancelled"
	KindUnknown            FailureKind = "unknown"
)

const (
	maxOutputLen  = 500
	maxMessageLen = 100
)

var (
	ErrCorruptedInput    = errors.New("input file is corrupted or unreadable")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrMissingInput      = errors.New("input file not found")
	ErrUnsupportedCodec  = errors.New("codec not supported by ffmpeg build")
	ErrDecode            = errors.New("error while decoding input")
	ErrResourceExhausted = errors.New("out of system resources")
	ErrDiskFull          = errors.New("insufficient disk space")
	ErrTimeout           = errors.New("conversion timeout")
	ErrVerification      = errors.New("output verification failed")
)

// failurePatterns map ffmpeg diagnostics to failure kinds. The first match
// wins, so more specific phrases come first.
var failurePatterns = []struct {
	kind     FailureKind
	err      error
	fragment string
}{
	{KindDiskFull, ErrDiskFull, "no space left on device"},
	{KindDiskFull, ErrDiskFull, "disk quota exceeded"},
	{KindPermissionDenied, ErrPermissionDenied, "permission denied"},
	{KindPermissionDenied, ErrPermissionDenied, "operation not permitted"},
	{KindMissingInput, ErrMissingInput, "no such file or directory"},
	{KindCorruptedInput, ErrCorruptedInput, "invalid data found when processing input"},
	{KindCorruptedInput, ErrCorruptedInput, "moov atom not found"},
	{KindCorruptedInput, ErrCorruptedInput, "header missing"},
	{KindUnsupportedCodec, ErrUnsupportedCodec, "unknown encoder"},
	{KindUnsupportedCodec, ErrUnsupportedCodec, "unknown decoder"},
	{KindUnsupportedCodec, ErrUnsupportedCodec, "decoder not found"},
	{KindUnsupportedCodec, ErrUnsupportedCodec, "encoder not found"},
	{KindUnsupportedCodec, ErrUnsupportedCodec, "codec not currently supported"},
	{KindUnsupportedCodec, ErrUnsupportedCodec, "unsupported codec"},
	{KindUnsupportedCodec, ErrUnsupportedCodec, "resampling engine is unavailable"},
	{KindDecodeError, ErrDecode, "error while decoding"},
	{KindDecodeError, ErrDecode, "decoding error"},
	{KindDecodeError, ErrDecode, "error decoding"},
	{KindResourceExhausted, ErrResourceExhausted, "cannot allocate memory"},
	{KindResourceExhausted, ErrResourceExhausted, "out of memory"},
	{KindResourceExhausted, ErrResourceExhausted, "resource temporarily unavailable"},
}

// ConversionError carries the classified cause of a failed conversion.
type ConversionError struct {
	Kind     FailureKind
	ExitCode int
	Output   string
	Err      error
}

func (e *ConversionError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("ffmpeg exited with code %d (%s): %v", e.ExitCode, e.Kind, e.Err)
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Message returns the short user-facing description of the failure.
func (e *ConversionError) Message() string {
	switch e.Kind {
	case KindCorruptedInput:
		return "Corrupted or unreadable input"
	case KindPermissionDenied:
		return "Permission denied"
	case KindMissingInput:
		return "Input file not found"
	case KindUnsupportedCodec:
		return "Codec not supported by ffmpeg"
	case KindDecodeError:
		return "Decoding error"
	case KindResourceExhausted:
		return "Out of system resources"
	case KindDiskFull:
		return "Insufficient disk space"
	case KindTimeout:
		return "Conversion timeout"
	case KindCancelled:
		return "Conversion cancelled"
	case KindVerificationFailed:
		return "Verification failed: " + textutil.Truncate(errorDetail(e.Err), maxMessageLen)
	}
	if e.ExitCode != 0 {
		return fmt.Sprintf("FFmpeg error (code %d): %s", e.ExitCode, textutil.Tail(e.Output, maxMessageLen))
	}
	return "Error: " + textutil.Truncate(errorDetail(e.Err), maxMessageLen)
}

// ClassifyFailure inspects ffmpeg's exit code and diagnostic output. Unmatched
// output yields KindUnknown with the output tail preserved for display.
func ClassifyFailure(exitCode int, output string) *ConversionError {
	lower := strings.ToLower(output)
	for _, p := range failurePatterns {
		if strings.Contains(lower, p.fragment) {
			return &ConversionError{Kind: p.kind, ExitCode: exitCode, Output: textutil.Tail(output, maxOutputLen), Err: p.err}
		}
	}
	switch exitCode {
	case 69:
		return &ConversionError{Kind: KindResourceExhausted, ExitCode: exitCode, Output: textutil.Tail(output, maxOutputLen), Err: ErrResourceExhausted}
	case 137:
		return &ConversionError{Kind: KindResourceExhausted, ExitCode: exitCode, Output: textutil.Tail(output, maxOutputLen), Err: fmt.Errorf("%w: ffmpeg killed (possibly OOM)", ErrResourceExhausted)}
	}
	return &ConversionError{
		Kind:     KindUnknown,
		ExitCode: exitCode,
		Output:   textutil.Tail(output, maxOutputLen),
		Err:      fmt.Errorf("ffmpeg unknown error (code %d)", exitCode),
	}
}

// KindOf returns the failure kind carried by err, or KindUnknown.
func KindOf(err error) FailureKind {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return convErr.Kind
	}
	return KindUnknown
}

func errorDetail(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
