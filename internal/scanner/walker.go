package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/lumipallolabs/shredspace/internal/logging"
	"github.com/lumipallolabs/shredspace/internal/model"
)

// UsageProgress reports recursive walk progress
type UsageProgress struct {
	FilesScanned int64
	BytesFound   int64
}

// Walker collects every regular file under a root for usage totals.
// Unlike DirLister it descends into subdirectories; it feeds the
// aggregate usage view, not the per-directory listing.
type Walker struct {
	progressCh chan UsageProgress
	files      int64
	bytes      int64
}

// NewWalker creates a new recursive usage walker
func NewWalker() *Walker {
	return &Walker{
		progressCh: make(chan UsageProgress, 100),
	}
}

// Progress returns the progress channel
func (w *Walker) Progress() <-chan UsageProgress {
	return w.progressCh
}

// Walk scans the tree rooted at root using fastwalk and returns a flat
// listing of all regular files found. Hidden entries are skipped, as
// are symlinks.
func (w *Walker) Walk(ctx context.Context, root string) (model.Listing, error) {
	defer close(w.progressCh)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return model.Listing{}, err
	}

	// Collect entries off the walk goroutines without locking
	entryChan := make(chan model.Entry, 4096)
	var entries []model.Entry
	var collectWg sync.WaitGroup

	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		collected := make([]model.Entry, 0, 1024)
		for e := range entryChan {
			collected = append(collected, e)
		}
		entries = collected
	}()

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return nil // Skip entries with errors
		}

		if path == absRoot {
			return nil
		}

		name := d.Name()
		if len(name) > 0 && name[0] == '.' {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		files := atomic.AddInt64(&w.files, 1)
		bytes := atomic.AddInt64(&w.bytes, info.Size())

		select {
		case w.progressCh <- UsageProgress{FilesScanned: files, BytesFound: bytes}:
		default:
		}

		entryChan <- model.Entry{
			Name:    name,
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}

		return nil
	})

	close(entryChan)
	collectWg.Wait()

	if walkErr != nil {
		return model.Listing{}, walkErr
	}

	logging.Scanner.Printf("walked %s: %d files, %d bytes",
		absRoot, atomic.LoadInt64(&w.files), atomic.LoadInt64(&w.bytes))

	return model.Listing{Dir: absRoot, Entries: entries}, nil
}
