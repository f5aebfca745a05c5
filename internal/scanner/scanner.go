package scanner

import (
	"context"

	"github.com/lumipallolabs/shredspace/internal/model"
)

// Lister defines the interface for scanning a single directory level
type Lister interface {
	// List scans the top-level entries of dir and returns the listing.
	// Progress updates are delivered on the Progress channel while the
	// scan runs; the channel is closed before List returns.
	List(ctx context.Context, dir string) (model.Listing, error)

	// Progress returns a channel that receives completion percentages
	// in [0,100], in non-decreasing order
	Progress() <-chan int
}
