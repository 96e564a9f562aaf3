// Package core contains the stage plumbing: the Worker that owns a stage
// goroutine, the loops each stage role runs on it, stage settings, and
// helpers to move slices in and out of channels. It does not know about
// composition; package stage and chain build on it.
package core
