// Package ui implements the terminal user interface for shredspace using
// Bubbletea. It is a thin caller over the core controller: it requests
// scans and erasures and renders the progress and outcome events.
package ui
