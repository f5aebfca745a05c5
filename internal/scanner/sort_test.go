package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lumipallolabs/shredspace/internal/model"
)

func writeSortFixture(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()

	os.WriteFile(filepath.Join(tmp, "banana.txt"), []byte("123456"), 0644)
	os.WriteFile(filepath.Join(tmp, "apple.md"), []byte("123"), 0644)
	os.WriteFile(filepath.Join(tmp, "cherry.go"), []byte("1"), 0644)
	os.WriteFile(filepath.Join(tmp, ".dotfile"), []byte("hidden"), 0644)
	os.MkdirAll(filepath.Join(tmp, "sub"), 0755)

	// Force distinct modification times
	base := time.Now().Add(-time.Hour)
	os.Chtimes(filepath.Join(tmp, "banana.txt"), base, base)
	os.Chtimes(filepath.Join(tmp, "apple.md"), base.Add(time.Minute), base.Add(time.Minute))
	os.Chtimes(filepath.Join(tmp, "cherry.go"), base.Add(2*time.Minute), base.Add(2*time.Minute))

	return tmp
}

func namesOf(l model.Listing) []string {
	names := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		names[i] = e.Name
	}
	return names
}

func TestListSorted(t *testing.T) {
	dir := writeSortFixture(t)

	tests := []struct {
		key  model.SortKey
		want []string
	}{
		{model.SortByName, []string{"apple.md", "banana.txt", "cherry.go"}},
		{model.SortBySize, []string{"cherry.go", "apple.md", "banana.txt"}},
		{model.SortByExtension, []string{"cherry.go", "apple.md", "banana.txt"}},
		{model.SortByModTime, []string{"banana.txt", "apple.md", "cherry.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			listing, err := ListSorted(dir, tt.key)
			if err != nil {
				t.Fatalf("ListSorted failed: %v", err)
			}
			got := namesOf(listing)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ListSorted must reflect the directory as it is now, not a cached scan
func TestListSortedReReadsFilesystem(t *testing.T) {
	dir := writeSortFixture(t)

	first, err := ListSorted(dir, model.SortByName)
	if err != nil {
		t.Fatalf("ListSorted failed: %v", err)
	}

	os.WriteFile(filepath.Join(dir, "added.txt"), []byte("new"), 0644)

	second, err := ListSorted(dir, model.SortByName)
	if err != nil {
		t.Fatalf("ListSorted failed: %v", err)
	}

	if len(second.Entries) != len(first.Entries)+1 {
		t.Errorf("second listing should include the new file: %v", namesOf(second))
	}
	if namesOf(second)[0] != "added.txt" {
		t.Errorf("expected added.txt first, got %v", namesOf(second))
	}
}

func TestListSortedUnknownKey(t *testing.T) {
	dir := writeSortFixture(t)

	if _, err := ListSorted(dir, model.SortKey(42)); err == nil {
		t.Fatal("expected error for out-of-range sort key")
	}
}

func TestListSortedMissingDir(t *testing.T) {
	if _, err := ListSorted(filepath.Join(t.TempDir(), "nope"), model.SortByName); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
