// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no cdjready-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: audio stream properties (codec, sample format, rate, bit depth)
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
package ffprobe
