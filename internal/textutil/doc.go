// Package textutil provides text helpers for building safe output file names.
//
// Names are normalized to Unicode NFC before sanitizing so that visually
// identical titles from different sources (macOS file systems store NFD) map
// to the same output file.
package textutil
