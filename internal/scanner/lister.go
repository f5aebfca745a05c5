package scanner

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumipallolabs/shredspace/internal/logging"
	"github.com/lumipallolabs/shredspace/internal/model"
)

// DirLister scans the top level of a single directory.
// One instance serves one scan at a time; callers must not start a
// second List while one is in flight.
type DirLister struct {
	progressCh chan int
}

// NewDirLister creates a new single-level directory lister
func NewDirLister() *DirLister {
	return &DirLister{
		progressCh: make(chan int, 100),
	}
}

// Progress returns the progress channel
func (l *DirLister) Progress() <-chan int {
	return l.progressCh
}

// List enumerates the visible regular files directly under dir.
// Hidden entries (leading '.') and non-regular entries are skipped.
// A percentage is emitted after each visible file; an empty directory
// emits a single 100.
func (l *DirLister) List(ctx context.Context, dir string) (model.Listing, error) {
	defer close(l.progressCh)

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return model.Listing{}, fmt.Errorf("read dir %s: %w", dir, err)
	}

	// Count visible regular files first so percentages have a fixed base
	total := 0
	for _, d := range dirents {
		if isVisibleFile(d.Name(), d.Type().IsRegular()) {
			total++
		}
	}

	listing := model.Listing{
		Dir:     dir,
		Entries: make([]model.Entry, 0, total),
	}

	if total == 0 {
		l.emit(100)
		logging.Scanner.Printf("listed %s: no visible files", dir)
		return listing, nil
	}

	for _, d := range dirents {
		select {
		case <-ctx.Done():
			return model.Listing{}, ctx.Err()
		default:
		}

		if !isVisibleFile(d.Name(), d.Type().IsRegular()) {
			continue
		}

		path := filepath.Join(dir, d.Name())
		info, err := d.Info()
		if err != nil {
			return model.Listing{}, fmt.Errorf("stat %s: %w", path, err)
		}

		listing.Entries = append(listing.Entries, model.Entry{
			Name:    d.Name(),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})

		l.emit(percent(len(listing.Entries), total))
	}

	logging.Scanner.Printf("listed %s: %d files, %d bytes",
		dir, len(listing.Entries), listing.TotalSize())

	return listing, nil
}

// emit sends a progress value without blocking a slow consumer
func (l *DirLister) emit(pct int) {
	select {
	case l.progressCh <- pct:
	default:
		// Channel full, drop update
	}
}

// percent computes the rounded completion percentage after done of total files
func percent(done, total int) int {
	return int(math.Round(float64(done) / float64(total) * 100))
}

// isVisibleFile reports whether a directory entry counts toward a listing
func isVisibleFile(name string, regular bool) bool {
	return regular && !strings.HasPrefix(name, ".")
}

// Ensure DirLister implements Lister
var _ Lister = (*DirLister)(nil)
