// Package planner computes conversion targets for audio files a device cannot
// play as-is.
//
// Planning is pure: it reads the source metadata and the device limits and
// never touches the filesystem. Lossless sources keep as much resolution as the
// device and the chosen container accept without inventing any; lossy sources
// always target 16-bit/44.1 kHz.
package planner
