package nbt

import (
	"fmt"

	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
)

// Document is a named root compound: the in-memory form of one save file.
type Document struct {
	Name string
	Root *Tag
}

// NewDocument wraps root, which must be a compound.
func NewDocument(name string, root *Tag) (*Document, error) {
	if root.Kind() != KindCompound {
		return nil, apperrors.New(apperrors.CodeFormat, fmt.Sprintf("document root is %s, want compound", root.Kind()))
	}
	return &Document{Name: name, Root: root}, nil
}

// Lookup resolves path from the document root.
func (d *Document) Lookup(path ...Segment) (*Tag, error) {
	if d == nil {
		return Lookup(nil, path...)
	}
	return Lookup(d.Root, path...)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Name: d.Name, Root: d.Root.Clone()}
}

// EqualDocuments reports whether two documents have the same root name and
// structurally equal trees.
func EqualDocuments(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && Equal(a.Root, b.Root)
}
