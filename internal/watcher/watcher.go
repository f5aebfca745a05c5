package watcher

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/lumipallolabs/shredspace/internal/logging"
)

// EventType represents the type of filesystem event
type EventType int

const (
	EventDeleted EventType = iota
	EventCreated
	EventModified
)

// Event represents a filesystem change event
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the currently listed directory so the caller can
// refresh when entries appear or vanish underneath it
type Watcher struct {
	fsw     *fsnotify.Watcher
	eventCh chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// New creates a new directory watcher
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:     fsw,
		eventCh: make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel for receiving filesystem events
func (w *Watcher) Events() <-chan Event {
	return w.eventCh
}

// Add watches a single directory (non-recursive, matching the scan scope)
func (w *Watcher) Add(dir string) error {
	return w.fsw.Add(dir)
}

// Start begins forwarding events
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.forward(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Debug.Printf("watcher error: %v", err)
		}
	}
}

// forward translates an fsnotify event into our event type
func (w *Watcher) forward(ev fsnotify.Event) {
	var out Event
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		out = Event{Type: EventDeleted, Path: ev.Name}
	case ev.Has(fsnotify.Create):
		out = Event{Type: EventCreated, Path: ev.Name}
	case ev.Has(fsnotify.Write):
		out = Event{Type: EventModified, Path: ev.Name}
	default:
		return
	}

	select {
	case w.eventCh <- out:
	default:
		// Channel full, drop event
	}
}

// Stop stops the watcher and closes the event channel
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.eventCh)
	return err
}
