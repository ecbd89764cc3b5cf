// Package main hosts the cdjready CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, the target device profile and
// the external ffmpeg tools once per invocation, then hands the real work to
// the internal check and convert packages. Keep this package lean: new
// behaviour belongs in internal packages first and is only surfaced here.
package main
