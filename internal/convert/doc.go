// Package convert drives ffmpeg to turn planned files into device-ready
// copies.
//
// Each conversion writes to a ".part" file, verifies it (exit status,
// non-empty output, probed sample rate) and only then renames it into place,
// so an interrupted or failed run never leaves a plausible-looking output
// behind. Batches run on a small bounded pool; failures are reported per file
// and never abort the batch.
package convert
