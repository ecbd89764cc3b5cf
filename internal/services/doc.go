// Package services defines shared utilities consumed by the check and convert
// pipelines.
//
// Key responsibilities:
//   - Context helpers that stamp file paths, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures can be mapped
//     to consistent CLI exit codes.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services
