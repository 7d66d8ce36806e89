// Package wham provides the core WHAM data model: the per-window Histogram,
// the multi-window Dataset that owns the shared bin grid and the
// precomputed Boltzmann-weighted bias cache, and the bias-evaluation and
// index-linearisation helpers both depend on.
//
// # Reading Guide
//
//   - histogram.go: one window's per-bin counts.
//   - dataset.go: the shared grid, bias cache and per-window weights; the
//     Reweighted constructor bootstrap uses to build sibling datasets.
//
// Package input builds Datasets from parsed time series; the solver
// (package solver) and bootstrap driver (package bootstrap) consume them,
// treating a Dataset as read-only except for the Weights field a reweighted
// Dataset carries.
package wham
