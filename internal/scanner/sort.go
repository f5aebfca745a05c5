package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lumipallolabs/shredspace/internal/model"
)

// ListSorted re-reads dir from the filesystem and returns its visible
// regular files ordered by key. It never sorts a previously cached
// listing; every call reflects the directory as it is now.
func ListSorted(dir string, key model.SortKey) (model.Listing, error) {
	switch key {
	case model.SortByName, model.SortBySize, model.SortByExtension, model.SortByModTime:
	default:
		return model.Listing{}, fmt.Errorf("unknown sort key %d", key)
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return model.Listing{}, fmt.Errorf("read dir %s: %w", dir, err)
	}

	listing := model.Listing{Dir: dir}
	for _, d := range dirents {
		if !isVisibleFile(d.Name(), d.Type().IsRegular()) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			return model.Listing{}, fmt.Errorf("stat %s: %w", filepath.Join(dir, d.Name()), err)
		}
		listing.Entries = append(listing.Entries, model.Entry{
			Name:    d.Name(),
			Path:    filepath.Join(dir, d.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	entries := listing.Entries
	switch key {
	case model.SortByName:
		// ReadDir already returns lexical order
	case model.SortBySize:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Size < entries[j].Size
		})
	case model.SortByExtension:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Ext() < entries[j].Ext()
		})
	case model.SortByModTime:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].ModTime.Before(entries[j].ModTime)
		})
	}

	return listing, nil
}
