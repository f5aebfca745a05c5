package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListingTotalSize(t *testing.T) {
	l := Listing{Entries: []Entry{{Size: 10}, {Size: 5}, {Size: 0}}}
	if l.TotalSize() != 15 {
		t.Errorf("TotalSize = %d, want 15", l.TotalSize())
	}
}

func TestEntryExt(t *testing.T) {
	if (Entry{Name: "photo.PNG"}).Ext() != ".PNG" {
		t.Error("extension should include the dot")
	}
	if (Entry{Name: "Makefile"}).Ext() != "" {
		t.Error("no extension expected")
	}
}

func TestParseSortKey(t *testing.T) {
	for name, want := range map[string]SortKey{
		"name": SortByName, "size": SortBySize,
		"extension": SortByExtension, "ext": SortByExtension,
		"modified": SortByModTime, "date": SortByModTime,
	} {
		got, ok := ParseSortKey(name)
		if !ok || got != want {
			t.Errorf("ParseSortKey(%q) = %v/%v", name, got, ok)
		}
	}
	if _, ok := ParseSortKey("color"); ok {
		t.Error("unknown key should not parse")
	}
}

func TestSearch(t *testing.T) {
	l := Listing{Dir: "/tmp", Entries: []Entry{
		{Name: "Report-Final.pdf"},
		{Name: "report-draft.pdf"},
		{Name: "holiday.jpg"},
	}}

	got := l.Search("report")
	if len(got.Entries) != 2 {
		t.Fatalf("search matched %d entries, want 2 (case-insensitive)", len(got.Entries))
	}
	if got.Dir != "/tmp" {
		t.Errorf("Dir = %q, want /tmp", got.Dir)
	}

	if n := len(l.Search("holi").Entries); n != 1 {
		t.Errorf("substring match gave %d entries, want 1", n)
	}
	if n := len(l.Search("zzz").Entries); n != 0 {
		t.Errorf("no-match query gave %d entries, want 0", n)
	}
	if n := len(l.Search("").Entries); n != 3 {
		t.Errorf("empty query must not filter, got %d entries", n)
	}
}

// pngHeader is the magic mimetype sniffs an image from
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestClassify(t *testing.T) {
	tmp := t.TempDir()

	img := filepath.Join(tmp, "pic.png")
	os.WriteFile(img, pngHeader, 0644)

	doc := filepath.Join(tmp, "notes.txt")
	os.WriteFile(doc, []byte("plain text content"), 0644)

	bin := filepath.Join(tmp, "blob.bin")
	os.WriteFile(bin, []byte{0x00, 0x01, 0x02, 0xff, 0xfe}, 0644)

	if got := Classify(img); got != CategoryImage {
		t.Errorf("png classified as %v", got)
	}
	if got := Classify(doc); got != CategoryDocument {
		t.Errorf("text classified as %v", got)
	}
	if got := Classify(bin); got != CategoryOther {
		t.Errorf("binary blob classified as %v", got)
	}
}

func TestClassifyFallsBackToExtension(t *testing.T) {
	// Unreadable path: content sniffing fails, extension decides
	missing := filepath.Join(t.TempDir(), "gone.jpg")
	if got := Classify(missing); got != CategoryImage {
		t.Errorf("extension fallback gave %v", got)
	}
}

func TestFilter(t *testing.T) {
	tmp := t.TempDir()
	img := filepath.Join(tmp, "a.png")
	os.WriteFile(img, pngHeader, 0644)
	txt := filepath.Join(tmp, "b.txt")
	os.WriteFile(txt, []byte("words"), 0644)

	l := Listing{Dir: tmp, Entries: []Entry{
		{Name: "a.png", Path: img},
		{Name: "b.txt", Path: txt},
	}}

	images := l.Filter(CategoryImage)
	if len(images.Entries) != 1 || images.Entries[0].Name != "a.png" {
		t.Errorf("image filter gave %v", images.Entries)
	}

	all := l.Filter(CategoryAll)
	if len(all.Entries) != 2 {
		t.Errorf("CategoryAll must not filter, got %d entries", len(all.Entries))
	}
}
