package shred

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// writeTarget creates a file to destroy and returns its path
func writeTarget(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "victim.dat")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// drain discards progress so Erase never blocks on a full channel
func drain(s *Shredder) {
	go func() {
		for range s.Progress() {
		}
	}()
}

func TestZeroFillPasses(t *testing.T) {
	path := writeTarget(t, []byte("0123456789")) // 10 bytes

	s := NewShredder(0)
	drain(s)

	var writes [][]byte
	s.onPassWritten = func(pass int, p []byte) {
		writes = append(writes, append([]byte(nil), p...))
	}

	out := s.Erase(context.Background(), Request{Path: path, Method: MethodZero, Passes: 3})
	if !out.OK {
		t.Fatalf("erase failed: %v", out.Err)
	}
	if out.State != StateCompleted {
		t.Errorf("expected StateCompleted, got %v", out.State)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should no longer exist")
	}

	if len(writes) != 3 {
		t.Fatalf("expected 3 pass writes, got %d", len(writes))
	}
	for i, w := range writes {
		if len(w) != 10 {
			t.Errorf("pass %d wrote %d bytes, want 10", i, len(w))
		}
		if !bytes.Equal(w, make([]byte, len(w))) {
			t.Errorf("pass %d buffer not all zero", i)
		}
	}

	if out.PassesCompleted != 3 || out.TotalPasses != 3 {
		t.Errorf("passes completed %d/%d, want 3/3", out.PassesCompleted, out.TotalPasses)
	}
}

func TestChunkSizeBoundsWrites(t *testing.T) {
	path := writeTarget(t, []byte("0123456789")) // 10 bytes

	s := NewShredder(4)
	drain(s)

	var sizes []int
	s.onPassWritten = func(pass int, p []byte) {
		sizes = append(sizes, len(p))
	}

	out := s.Erase(context.Background(), Request{Path: path, Method: MethodZero, Passes: 1})
	if !out.OK {
		t.Fatalf("erase failed: %v", out.Err)
	}

	// 10 bytes through a 4-byte buffer: two full chunks plus the tail
	want := []int{4, 4, 2}
	if len(sizes) != len(want) {
		t.Fatalf("chunk writes = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("write %d was %d bytes, want %d", i, sizes[i], want[i])
		}
	}
}

func TestRandomFillFreshPerPass(t *testing.T) {
	path := writeTarget(t, make([]byte, 64))

	s := NewShredder(0)
	drain(s)

	var writes [][]byte
	s.onPassWritten = func(pass int, p []byte) {
		writes = append(writes, append([]byte(nil), p...))
	}

	out := s.Erase(context.Background(), Request{Path: path, Method: MethodRandom, Passes: 3})
	if !out.OK {
		t.Fatalf("erase failed: %v", out.Err)
	}

	if len(writes) != 3 {
		t.Fatalf("expected 3 pass writes, got %d", len(writes))
	}
	for i := 0; i < len(writes); i++ {
		for j := i + 1; j < len(writes); j++ {
			if bytes.Equal(writes[i], writes[j]) {
				t.Errorf("passes %d and %d wrote identical random data", i, j)
			}
		}
	}
}

func TestDoDAlwaysThreePasses(t *testing.T) {
	path := writeTarget(t, make([]byte, 32))

	s := NewShredder(0)
	drain(s)

	passes := 0
	s.onPassWritten = func(pass int, p []byte) { passes++ }

	out := s.Erase(context.Background(), Request{Path: path, Method: MethodDoD, Passes: 10})
	if !out.OK {
		t.Fatalf("erase failed: %v", out.Err)
	}
	if passes != 3 {
		t.Errorf("DoD performed %d passes, want exactly 3", passes)
	}
	if out.TotalPasses != 3 {
		t.Errorf("TotalPasses = %d, want 3", out.TotalPasses)
	}
}

func TestAESPreservesLength(t *testing.T) {
	plaintext := []byte("The quick brown fox jumps over the lazy dog")
	path := writeTarget(t, plaintext)

	s := NewShredder(0)
	drain(s)

	var written []byte
	s.onPassWritten = func(pass int, p []byte) {
		written = append([]byte(nil), p...)
	}

	out := s.Erase(context.Background(), Request{Path: path, Method: MethodAES, Passes: 1})
	if !out.OK {
		t.Fatalf("erase failed: %v", out.Err)
	}

	if len(written) != len(plaintext) {
		t.Errorf("ciphertext length %d != plaintext length %d", len(written), len(plaintext))
	}
	if bytes.Equal(written, plaintext) {
		t.Error("ciphertext equals plaintext")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should no longer exist")
	}
}

func TestInvalidPassesNoIO(t *testing.T) {
	content := []byte("untouched")

	for _, passes := range []int{0, 100, -1} {
		path := writeTarget(t, content)

		s := NewShredder(0)
		drain(s)
		s.onPassWritten = func(pass int, p []byte) {
			t.Errorf("passes=%d: write observed before validation", passes)
		}

		out := s.Erase(context.Background(), Request{Path: path, Method: MethodZero, Passes: passes})
		if out.OK {
			t.Fatalf("passes=%d: erase should have failed", passes)
		}
		if out.Kind != FailInvalidArgument {
			t.Errorf("passes=%d: kind = %v, want invalid-argument", passes, out.Kind)
		}

		// File unchanged and still present
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("passes=%d: file should still exist: %v", passes, err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("passes=%d: file content modified", passes)
		}
	}
}

func TestUnknownMethod(t *testing.T) {
	path := writeTarget(t, []byte("data"))

	s := NewShredder(0)
	drain(s)

	out := s.Erase(context.Background(), Request{Path: path, Method: "gutmann", Passes: 3})
	if out.OK || out.Kind != FailInvalidArgument {
		t.Errorf("expected invalid-argument, got %+v", out)
	}
}

func TestNotFound(t *testing.T) {
	s := NewShredder(0)
	drain(s)

	out := s.Erase(context.Background(), Request{
		Path:   filepath.Join(t.TempDir(), "vanished"),
		Method: MethodZero,
		Passes: 1,
	})
	if out.OK || out.Kind != FailNotFound {
		t.Errorf("expected not-found, got %+v", out)
	}
}

func TestPartialEraseWhenUnlinkFails(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not bind root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "victim.dat")
	if err := os.WriteFile(path, []byte("secret data"), 0644); err != nil {
		t.Fatal(err)
	}

	// Read-only directory: overwrite still works, unlink cannot
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	s := NewShredder(0)
	drain(s)

	out := s.Erase(context.Background(), Request{Path: path, Method: MethodZero, Passes: 1})
	if out.OK {
		t.Fatal("erase should have failed at unlink")
	}
	if out.Kind != FailPartialErase {
		t.Errorf("kind = %v, want partial-erase", out.Kind)
	}
	if out.PassesCompleted != 1 {
		t.Errorf("overwrite should have completed before unlink failed, got %d passes", out.PassesCompleted)
	}
	if !errors.Is(out.Err, ErrPartialErase) {
		t.Errorf("error should wrap ErrPartialErase: %v", out.Err)
	}
	if !errors.Is(out.Err, fs.ErrPermission) {
		t.Errorf("error should preserve the unlink cause: %v", out.Err)
	}

	// Content destroyed, entry still visible
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("entry should still exist: %v", err)
	}
	if !bytes.Equal(got, make([]byte, 11)) {
		t.Error("content should be zeroed")
	}
}

func TestProgressPerPass(t *testing.T) {
	path := writeTarget(t, []byte("progress me"))

	s := NewShredder(0)

	var progress []int
	done := make(chan struct{})
	go func() {
		defer close(done)
		for pct := range s.Progress() {
			progress = append(progress, pct)
		}
	}()

	out := s.Erase(context.Background(), Request{Path: path, Method: MethodZero, Passes: 4})
	<-done
	if !out.OK {
		t.Fatalf("erase failed: %v", out.Err)
	}

	want := []int{25, 50, 75, 100}
	if len(progress) != len(want) {
		t.Fatalf("progress = %v, want %v", progress, want)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress[%d] = %d, want %d", i, progress[i], want[i])
		}
	}
}

func TestCancellationReportsCompletedPasses(t *testing.T) {
	path := writeTarget(t, make([]byte, 16))

	ctx, cancel := context.WithCancel(context.Background())

	s := NewShredder(0)
	drain(s)
	s.onPassWritten = func(pass int, p []byte) {
		if pass == 0 {
			cancel() // takes effect before the next pass starts
		}
	}

	out := s.Erase(ctx, Request{Path: path, Method: MethodRandom, Passes: 5})
	if out.OK {
		t.Fatal("erase should have been interrupted")
	}
	if out.PassesCompleted != 1 {
		t.Errorf("PassesCompleted = %d, want 1", out.PassesCompleted)
	}

	// The interrupted file remains, partially overwritten
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file should still exist after interruption: %v", err)
	}
}

func TestDirectoryIsRejected(t *testing.T) {
	dir := t.TempDir()

	s := NewShredder(0)
	drain(s)

	out := s.Erase(context.Background(), Request{Path: dir, Method: MethodZero, Passes: 1})
	if out.OK {
		t.Fatal("erasing a directory must fail")
	}
}
