package nbt

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
)

// ErrPathNotFound matches (via errors.Is) every failed structural lookup.
var ErrPathNotFound = apperrors.New(apperrors.CodePathNotFound, "path not found")

// Segment is one step of a path: a compound key or a list index.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// Key addresses a compound child by name.
func Key(name string) Segment {
	return Segment{name: name}
}

// At addresses a list element by position.
func At(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// Path is an ordered sequence of segments.
type Path []Segment

// String renders the path as Data.Player or Pos[0].
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.isIndex {
			fmt.Fprintf(&b, "[%d]", seg.index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.name)
	}
	return b.String()
}

// ParsePath parses the dotted form produced by Path.String. Keys containing
// '.' or '[' cannot be expressed this way; build those with Key directly.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("nbt: empty path")
	}
	var out Path
	for _, part := range strings.Split(s, ".") {
		name := part
		var indexes []int
		if open := strings.IndexByte(part, '['); open >= 0 {
			name = part[:open]
			rest := part[open:]
			for rest != "" {
				if rest[0] != '[' {
					return nil, fmt.Errorf("nbt: malformed path %q", s)
				}
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, fmt.Errorf("nbt: unterminated index in %q", s)
				}
				i, err := strconv.Atoi(rest[1:end])
				if err != nil || i < 0 {
					return nil, fmt.Errorf("nbt: bad index %q in %q", rest[1:end], s)
				}
				indexes = append(indexes, i)
				rest = rest[end+1:]
			}
		}
		if name == "" && (len(out) == 0 || len(indexes) == 0) {
			return nil, fmt.Errorf("nbt: empty key in %q", s)
		}
		if name != "" {
			out = append(out, Key(name))
		}
		for _, i := range indexes {
			out = append(out, At(i))
		}
	}
	return out, nil
}

// Lookup walks path from root. Any absent segment, or a segment applied to
// the wrong kind of tag, fails with a PATH_NOT_FOUND error naming the prefix
// that could not be resolved.
func Lookup(root *Tag, path ...Segment) (*Tag, error) {
	if root == nil {
		return nil, pathNotFound(Path(path), 0)
	}
	current := root
	for i, seg := range path {
		var (
			next *Tag
			ok   bool
		)
		if seg.isIndex {
			next, ok = current.Index(seg.index)
		} else {
			next, ok = current.Get(seg.name)
		}
		if !ok || next == nil {
			return nil, pathNotFound(Path(path), i+1)
		}
		current = next
	}
	return current, nil
}

func pathNotFound(path Path, depth int) error {
	full := path.String()
	missing := path[:depth].String()
	if depth == 0 {
		missing = full
	}
	return apperrors.WithMetadata(
		apperrors.CodePathNotFound,
		fmt.Sprintf("path not found: %s", missing),
		map[string]string{"Path": full, "Missing": missing},
	)
}
