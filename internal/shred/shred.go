package shred

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/lumipallolabs/shredspace/internal/logging"
)

// defaultChunkSize bounds the pattern buffer for one write
const defaultChunkSize = 4 * 1024 * 1024

// MinPasses and MaxPasses bound the caller-supplied pass count
const (
	MinPasses = 1
	MaxPasses = 99
)

// Request describes one erase operation. It is constructed per call and
// never persisted.
type Request struct {
	Path   string
	Method Method
	Passes int
}

// Validate checks the request without touching the filesystem
func (r Request) Validate() error {
	if _, err := ParseMethod(string(r.Method)); err != nil {
		return err
	}
	if r.Passes < MinPasses || r.Passes > MaxPasses {
		return fmt.Errorf("%w: passes %d outside [%d,%d]",
			ErrInvalidArgument, r.Passes, MinPasses, MaxPasses)
	}
	return nil
}

// State names a position in the erase lifecycle
type State int

const (
	StatePending State = iota
	StateOverwriting
	StateUnlinking
	StateCompleted
	StateFailed
)

// Outcome is the terminal result of an erase. PassesCompleted lets a
// caller warn that content may be partially destroyed even when the
// request as a whole failed.
type Outcome struct {
	OK              bool
	Kind            FailureKind
	State           State
	PassesCompleted int
	TotalPasses     int
	Err             error
}

// Shredder overwrites a file's bytes in place and then unlinks it.
// One instance serves one erase at a time.
type Shredder struct {
	chunkSize  int
	progressCh chan int

	// onPassWritten observes each buffer handed to the file during an
	// overwrite pass; set only by tests
	onPassWritten func(pass int, p []byte)
}

// NewShredder creates a shredder. chunkSize bounds the pattern buffer
// for a single write; values below 1 select the default.
func NewShredder(chunkSize int) *Shredder {
	if chunkSize < 1 {
		chunkSize = defaultChunkSize
	}
	return &Shredder{
		chunkSize:  chunkSize,
		progressCh: make(chan int, 100),
	}
}

// Progress returns a channel receiving a percentage after each
// completed pass, in non-decreasing order. Closed when the erase ends.
func (s *Shredder) Progress() <-chan int {
	return s.progressCh
}

// Erase runs the request to completion. The file is opened read-write
// without truncation so its length is preserved across passes; after
// the final pass the directory entry is removed. An interrupted erase
// leaves the file partially overwritten; that state is reported, never
// masked.
func (s *Shredder) Erase(ctx context.Context, req Request) Outcome {
	defer close(s.progressCh)

	total := req.Method.PassCount(req.Passes)
	out := Outcome{State: StatePending, TotalPasses: total}

	if err := req.Validate(); err != nil {
		return s.fail(out, err)
	}

	f, err := os.OpenFile(req.Path, os.O_RDWR, 0)
	if err != nil {
		return s.fail(out, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return s.fail(out, fmt.Errorf("stat %s: %w", req.Path, err))
	}
	if !info.Mode().IsRegular() {
		return s.fail(out, fmt.Errorf("%w: %s is not a regular file", ErrInvalidArgument, req.Path))
	}
	size := info.Size()

	logging.Shred.Printf("erasing %s: method=%s passes=%d size=%d",
		req.Path, req.Method, total, size)

	out.State = StateOverwriting
	for pass := 0; pass < total; pass++ {
		select {
		case <-ctx.Done():
			return s.fail(out, ctx.Err())
		default:
		}

		if req.Method == MethodAES {
			err = s.scramblePass(f, size)
		} else {
			err = s.overwritePass(f, req.Method, pass, size)
		}
		if err != nil {
			return s.fail(out, err)
		}

		out.PassesCompleted = pass + 1
		s.emit(passPercent(out.PassesCompleted, total))
	}

	out.State = StateUnlinking
	if err := os.Remove(req.Path); err != nil {
		return s.fail(out, fmt.Errorf("%w: %w", ErrPartialErase, err))
	}

	out.State = StateCompleted
	out.OK = true
	logging.Shred.Printf("erased %s", req.Path)
	return out
}

// overwritePass writes one full pattern pass across the file's byte range
func (s *Shredder) overwritePass(f *os.File, m Method, pass int, size int64) error {
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	buf := make([]byte, min64(size, int64(s.chunkSize)))
	var written int64
	for written < size {
		chunk := buf[:min64(size-written, int64(len(buf)))]
		if err := fillPattern(m, chunk); err != nil {
			return err
		}
		if s.onPassWritten != nil {
			s.onPassWritten(pass, chunk)
		}
		n, err := f.Write(chunk)
		written += int64(n)
		if err != nil {
			return fmt.Errorf("write pass %d: %w", pass+1, err)
		}
	}
	return nil
}

// fail finalizes a failed outcome
func (s *Shredder) fail(out Outcome, err error) Outcome {
	out.Err = err
	out.Kind = classify(err)
	out.State = StateFailed
	logging.Shred.Printf("erase failed (%s): %v", out.Kind, err)
	return out
}

// emit sends a progress value without blocking a slow consumer
func (s *Shredder) emit(pct int) {
	select {
	case s.progressCh <- pct:
	default:
	}
}

// passPercent computes progress after done of total passes
func passPercent(done, total int) int {
	return int(math.Round(float64(done) / float64(total) * 100))
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
