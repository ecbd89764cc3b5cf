// Package audiometa normalizes ffprobe output into the AudioMetadata value
// used by format classification and compatibility checks.
//
// Probe wraps the external prober with a timeout and maps its failure modes
// (missing audio stream, empty output, timeout) onto service error markers.
// The display helpers on AudioMetadata render rates, depths, durations and
// codec names for tables.
package audiometa
