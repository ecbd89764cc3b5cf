// Package compat decides whether a probed audio file plays natively on a
// device profile and, when it does not, how it should be converted.
//
// Evaluation is total: every (metadata, profile) pair yields exactly one
// Result, including internal failures, which fold into StatusError. The
// profile is an explicit argument, so a Checker is safe for concurrent use.
package compat
