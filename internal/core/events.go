package core

import (
	"github.com/lumipallolabs/shredspace/internal/model"
	"github.com/lumipallolabs/shredspace/internal/shred"
)

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// ScanStartedEvent is emitted when a directory scan begins
type ScanStartedEvent struct {
	Dir string
}

func (ScanStartedEvent) isEvent() {}

// ScanProgressEvent is emitted after each file processed during a scan
type ScanProgressEvent struct {
	Percent int
}

func (ScanProgressEvent) isEvent() {}

// ScanCompletedEvent is emitted exactly once when a scan finishes
type ScanCompletedEvent struct {
	Listing model.Listing
	Err     error
}

func (ScanCompletedEvent) isEvent() {}

// ShredStartedEvent is emitted when an erase begins
type ShredStartedEvent struct {
	Path   string
	Method shred.Method
	Passes int
}

func (ShredStartedEvent) isEvent() {}

// ShredProgressEvent is emitted after each completed overwrite pass
type ShredProgressEvent struct {
	Path    string
	Percent int
}

func (ShredProgressEvent) isEvent() {}

// ShredCompletedEvent is emitted exactly once when an erase ends
type ShredCompletedEvent struct {
	Path    string
	Outcome shred.Outcome
}

func (ShredCompletedEvent) isEvent() {}

// UsageProgressEvent is emitted during a recursive usage walk
type UsageProgressEvent struct {
	FilesScanned int64
	BytesFound   int64
}

func (UsageProgressEvent) isEvent() {}

// UsageCompletedEvent is emitted when a recursive usage walk finishes
type UsageCompletedEvent struct {
	Listing model.Listing
	Err     error
}

func (UsageCompletedEvent) isEvent() {}

// DirChangedEvent is emitted when the watched directory changes on disk
type DirChangedEvent struct {
	Path string
}

func (DirChangedEvent) isEvent() {}

// ErrorEvent is emitted when an operation fails
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}
