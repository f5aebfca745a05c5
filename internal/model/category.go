package model

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Category is a coarse file-type grouping used by the view filter
type Category int

const (
	CategoryAll Category = iota
	CategoryImage
	CategoryDocument
	CategoryOther
)

// String returns the category name as used on the command line
func (c Category) String() string {
	switch c {
	case CategoryAll:
		return "all"
	case CategoryImage:
		return "images"
	case CategoryDocument:
		return "documents"
	default:
		return "other"
	}
}

// ParseCategory maps a command-line name to a Category
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "all", "":
		return CategoryAll, true
	case "images", "image":
		return CategoryImage, true
	case "documents", "document", "docs":
		return CategoryDocument, true
	case "other":
		return CategoryOther, true
	default:
		return CategoryAll, false
	}
}

// documentExts covers document formats mimetype reports as generic text
var documentExts = map[string]bool{
	".md":  true,
	".txt": true,
	".csv": true,
	".rtf": true,
}

// Classify determines the category of a file from its content,
// falling back to the extension when the file cannot be read
func Classify(path string) Category {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return classifyExt(path)
	}

	switch {
	case strings.HasPrefix(mtype.String(), "image/"):
		return CategoryImage
	case strings.HasPrefix(mtype.String(), "text/"):
		return CategoryDocument
	case mtype.Is("application/pdf"),
		mtype.Is("application/msword"),
		mtype.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return CategoryDocument
	default:
		return CategoryOther
	}
}

// classifyExt is the extension fallback for unreadable files
func classifyExt(path string) Category {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".svg", ".tiff":
		return CategoryImage
	case ".pdf", ".doc", ".docx", ".odt":
		return CategoryDocument
	default:
		if documentExts[ext] {
			return CategoryDocument
		}
		return CategoryOther
	}
}
