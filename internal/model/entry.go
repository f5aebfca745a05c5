package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Entry represents a single regular file found in a scanned directory
type Entry struct {
	Name    string
	Path    string
	Size    int64 // size in bytes from lstat at scan time
	ModTime time.Time
}

// Ext returns the file extension including the dot, or "" if none
func (e Entry) Ext() string {
	return filepath.Ext(e.Name)
}

// Listing is the result of scanning one directory.
// Entries preserve enumeration order unless produced by a sorted listing.
// A Listing is replaced wholesale by the next scan; it is never mutated.
type Listing struct {
	Dir     string
	Entries []Entry
}

// TotalSize returns the sum of all entry sizes
func (l Listing) TotalSize() int64 {
	var total int64
	for _, e := range l.Entries {
		total += e.Size
	}
	return total
}

// Filter returns a new Listing containing only entries of the given category.
// CategoryAll returns the listing unchanged.
func (l Listing) Filter(cat Category) Listing {
	if cat == CategoryAll {
		return l
	}
	filtered := Listing{Dir: l.Dir}
	for _, e := range l.Entries {
		if Classify(e.Path) == cat {
			filtered.Entries = append(filtered.Entries, e)
		}
	}
	return filtered
}

// Search returns a new Listing containing only entries whose name
// contains query, compared case-insensitively. An empty query returns
// the listing unchanged.
func (l Listing) Search(query string) Listing {
	if query == "" {
		return l
	}
	q := strings.ToLower(query)
	matched := Listing{Dir: l.Dir}
	for _, e := range l.Entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			matched.Entries = append(matched.Entries, e)
		}
	}
	return matched
}

// SortKey selects the ordering for a sorted directory listing
type SortKey int

const (
	SortByName SortKey = iota
	SortBySize
	SortByExtension
	SortByModTime
)

// String returns the key name as used on the command line
func (k SortKey) String() string {
	switch k {
	case SortByName:
		return "name"
	case SortBySize:
		return "size"
	case SortByExtension:
		return "extension"
	case SortByModTime:
		return "modified"
	default:
		return "name"
	}
}

// ParseSortKey maps a command-line name to a SortKey
func ParseSortKey(s string) (SortKey, bool) {
	switch s {
	case "name":
		return SortByName, true
	case "size":
		return SortBySize, true
	case "extension", "ext", "type":
		return SortByExtension, true
	case "modified", "date", "mtime":
		return SortByModTime, true
	default:
		return SortByName, false
	}
}
