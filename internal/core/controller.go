package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lumipallolabs/shredspace/internal/config"
	"github.com/lumipallolabs/shredspace/internal/logging"
	"github.com/lumipallolabs/shredspace/internal/model"
	"github.com/lumipallolabs/shredspace/internal/scanner"
	"github.com/lumipallolabs/shredspace/internal/settings"
	"github.com/lumipallolabs/shredspace/internal/shred"
	"github.com/lumipallolabs/shredspace/internal/watcher"
)

// Controller manages the core application logic without UI dependencies.
// Scans and erases each run in their own goroutine and report through a
// per-operation event channel; progress events for one operation arrive
// in non-decreasing order and its completion event arrives after all of
// its progress events, immediately before the channel closes.
type Controller struct {
	mu sync.RWMutex

	// State
	dir     string
	listing model.Listing
	scan    ScanState
	filter  model.Category
	sortKey model.SortKey

	// In-flight erases, keyed by path. At most one erase per path may
	// run at a time; a second request for the same path is rejected.
	shredding map[string]bool

	// Internal services
	cfg      *config.Config
	settings *settings.Manager
	watcher  *watcher.Watcher
}

// NewController creates a new application controller
func NewController(cfg *config.Config) *Controller {
	if cfg == nil {
		cfg = config.Default()
	}

	settingsMgr := settings.NewManager(cfg.Scan.MaxRecentDirs)
	if err := settingsMgr.Load(); err != nil {
		logging.Debug.Printf("Failed to load settings: %v", err)
	}

	return &Controller{
		cfg:       cfg,
		settings:  settingsMgr,
		shredding: make(map[string]bool),
	}
}

// State returns a read-only snapshot of the current state
func (c *Controller) State() AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return AppState{
		Dir:     c.dir,
		Listing: c.listing,
		Scan:    c.scan,
		Filter:  c.filter,
		SortKey: c.sortKey,
	}
}

// Dir returns the current directory
func (c *Controller) Dir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dir
}

// Listing returns the most recent scan result
func (c *Controller) Listing() model.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listing
}

// ScanState returns the current scan state
func (c *Controller) ScanState() ScanState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scan
}

// Settings exposes the persisted user state
func (c *Controller) Settings() *settings.Manager {
	return c.settings
}

// Config returns the loaded configuration
func (c *Controller) Config() *config.Config {
	return c.cfg
}

// DefaultRequest builds an erase request for path from the last-used
// method and passes, falling back to the configured defaults
func (c *Controller) DefaultRequest(path string) shred.Request {
	method := c.settings.LastMethod()
	if method == "" {
		method = c.cfg.Shred.DefaultMethod
	}
	passes := c.settings.LastPasses()
	if passes < shred.MinPasses || passes > shred.MaxPasses {
		passes = c.cfg.Shred.DefaultPasses
	}
	return shred.Request{Path: path, Method: shred.Method(method), Passes: passes}
}

// StartScan begins scanning dir in the background. The returned channel
// delivers ScanStarted, then progress, then exactly one ScanCompleted,
// and is closed afterwards.
func (c *Controller) StartScan(ctx context.Context, dir string) (<-chan Event, error) {
	if dir == "" {
		return nil, fmt.Errorf("no directory given")
	}

	c.mu.Lock()
	c.dir = dir
	c.scan = ScanState{Phase: PhaseScanning, StartTime: time.Now()}
	c.listing = model.Listing{}
	c.mu.Unlock()

	c.settings.AddRecentDir(dir)

	eventCh := make(chan Event, 100)
	go c.runScan(ctx, dir, eventCh)

	return eventCh, nil
}

// runScan executes the scan in a goroutine
func (c *Controller) runScan(ctx context.Context, dir string, eventCh chan Event) {
	defer close(eventCh)

	logging.Debug.Printf("[Controller] Starting scan of %s", dir)

	eventCh <- ScanStartedEvent{Dir: dir}

	lister := scanner.NewDirLister()

	// Forward progress; the lister closes its channel before List
	// returns, so this goroutine always drains before completion is
	// emitted below.
	var progressWg sync.WaitGroup
	progressWg.Add(1)
	go func() {
		defer progressWg.Done()
		for pct := range lister.Progress() {
			c.mu.Lock()
			c.scan.Percent = pct
			c.mu.Unlock()

			eventCh <- ScanProgressEvent{Percent: pct}
		}
	}()

	listing, err := lister.List(ctx, dir)
	progressWg.Wait()

	if err != nil {
		c.mu.Lock()
		c.scan.Phase = PhaseIdle
		c.mu.Unlock()

		eventCh <- ScanCompletedEvent{Err: err}
		eventCh <- ErrorEvent{Err: err}
		return
	}

	c.mu.Lock()
	c.scan.Phase = PhaseComplete
	c.listing = listing
	c.mu.Unlock()

	eventCh <- ScanCompletedEvent{Listing: listing}

	logging.Debug.Printf("[Controller] Scan complete: %d entries", len(listing.Entries))
}

// ListSorted synchronously re-reads the current directory ordered by key.
// It recomputes from the filesystem; the cached listing is replaced, not
// sorted in place.
func (c *Controller) ListSorted(key model.SortKey) (model.Listing, error) {
	c.mu.RLock()
	dir := c.dir
	c.mu.RUnlock()

	if dir == "" {
		return model.Listing{}, fmt.Errorf("no directory scanned yet")
	}

	listing, err := scanner.ListSorted(dir, key)
	if err != nil {
		return model.Listing{}, err
	}

	c.mu.Lock()
	c.listing = listing
	c.sortKey = key
	c.mu.Unlock()

	return listing, nil
}

// SetFilter updates the category filter applied by FilteredListing
func (c *Controller) SetFilter(cat model.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = cat
}

// FilteredListing returns the current listing with the filter applied
func (c *Controller) FilteredListing() model.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listing.Filter(c.filter)
}

// StartShred begins erasing the file described by req in the background.
// The returned channel delivers ShredStarted, per-pass progress, then
// exactly one ShredCompleted, and is closed afterwards. A second request
// for a path already being erased is rejected immediately.
func (c *Controller) StartShred(ctx context.Context, req shred.Request) (<-chan Event, error) {
	c.mu.Lock()
	if c.shredding[req.Path] {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: erase already in flight for %s",
			shred.ErrInvalidArgument, req.Path)
	}
	c.shredding[req.Path] = true
	c.mu.Unlock()

	eventCh := make(chan Event, 100)
	go c.runShred(ctx, req, eventCh)

	return eventCh, nil
}

// runShred executes the erase in a goroutine
func (c *Controller) runShred(ctx context.Context, req shred.Request, eventCh chan Event) {
	defer close(eventCh)
	defer func() {
		c.mu.Lock()
		delete(c.shredding, req.Path)
		c.mu.Unlock()
	}()

	eventCh <- ShredStartedEvent{Path: req.Path, Method: req.Method, Passes: req.Passes}

	shredder := shred.NewShredder(c.cfg.Shred.ChunkSizeMB * 1024 * 1024)

	var progressWg sync.WaitGroup
	progressWg.Add(1)
	go func() {
		defer progressWg.Done()
		for pct := range shredder.Progress() {
			eventCh <- ShredProgressEvent{Path: req.Path, Percent: pct}
		}
	}()

	outcome := shredder.Erase(ctx, req)
	progressWg.Wait()

	if outcome.OK {
		c.settings.SetLastErase(string(req.Method), req.Passes)
	}

	eventCh <- ShredCompletedEvent{Path: req.Path, Outcome: outcome}

	if outcome.Err != nil {
		eventCh <- ErrorEvent{Err: outcome.Err}
	}
}

// StartUsageWalk begins a recursive usage walk of dir in the background
func (c *Controller) StartUsageWalk(ctx context.Context, dir string) (<-chan Event, error) {
	if dir == "" {
		return nil, fmt.Errorf("no directory given")
	}

	eventCh := make(chan Event, 100)
	go c.runUsageWalk(ctx, dir, eventCh)

	return eventCh, nil
}

// runUsageWalk executes the recursive walk in a goroutine
func (c *Controller) runUsageWalk(ctx context.Context, dir string, eventCh chan Event) {
	defer close(eventCh)

	walker := scanner.NewWalker()

	var progressWg sync.WaitGroup
	progressWg.Add(1)
	go func() {
		defer progressWg.Done()
		for p := range walker.Progress() {
			eventCh <- UsageProgressEvent{
				FilesScanned: p.FilesScanned,
				BytesFound:   p.BytesFound,
			}
		}
	}()

	listing, err := walker.Walk(ctx, dir)
	progressWg.Wait()

	eventCh <- UsageCompletedEvent{Listing: listing, Err: err}
	if err != nil {
		eventCh <- ErrorEvent{Err: err}
	}
}

// StartWatching watches the current directory for external changes
func (c *Controller) StartWatching() (<-chan Event, error) {
	c.mu.Lock()

	dir := c.dir
	if dir == "" {
		c.mu.Unlock()
		return nil, nil
	}

	// Stop existing watcher
	if c.watcher != nil {
		_ = c.watcher.Stop()
	}

	w, err := watcher.New()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.watcher = w
	c.mu.Unlock()

	if err := w.Add(dir); err != nil {
		logging.Debug.Printf("Failed to watch %s: %v", dir, err)
	}
	w.Start()

	eventCh := make(chan Event, 100)
	go c.watchLoop(w, eventCh)

	return eventCh, nil
}

// watchLoop forwards filesystem changes as events
func (c *Controller) watchLoop(w *watcher.Watcher, eventCh chan Event) {
	defer close(eventCh)

	for event := range w.Events() {
		logging.Debug.Printf("Watcher: change at %s", event.Path)
		eventCh <- DirChangedEvent{Path: event.Path}
	}
}

// Stop cleans up resources
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != nil {
		_ = c.watcher.Stop()
	}
	if c.settings != nil {
		_ = c.settings.Close()
	}
}
