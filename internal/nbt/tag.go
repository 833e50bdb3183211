// Package nbt implements the tagged tree document model used by save files
// and its gzip-wrapped binary encoding.
//
// A document is a named root Compound. Compounds keep their children in
// insertion order so a decode/encode cycle reproduces the original layout,
// and lists are homogeneous: every element shares the list's element kind.
package nbt

import (
	"errors"
	"fmt"
)

// Kind identifies a tag variant. The numeric values are the wire ids.
type Kind byte

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEnd:
		return "end"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindByteArray:
		return "byte_array"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindCompound:
		return "compound"
	case KindIntArray:
		return "int_array"
	case KindLongArray:
		return "long_array"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// Valid reports whether k is a defined wire id.
func (k Kind) Valid() bool {
	return k <= KindLongArray
}

// ErrListKind is returned when a list would hold an element of the wrong kind.
var ErrListKind = errors.New("nbt: list element kind mismatch")

// Tag is one node of a document tree.
type Tag struct {
	kind Kind

	// Scalar payloads (only one valid based on kind)
	intVal   int64
	floatVal float64
	strVal   string

	// Array payloads
	bytesVal []byte
	intsVal  []int32
	longsVal []int64

	// Container payloads
	elemKind Kind
	listVal  []*Tag
	entries  []Entry
}

// Entry is a named child of a Compound.
type Entry struct {
	Name  string
	Value *Tag
}

// Field builds an Entry.
func Field(name string, value *Tag) Entry {
	return Entry{Name: name, Value: value}
}

// ============================================================
// Constructors
// ============================================================

// Byte creates an 8-bit integer tag.
func Byte(v int8) *Tag {
	return &Tag{kind: KindByte, intVal: int64(v)}
}

// Short creates a 16-bit integer tag.
func Short(v int16) *Tag {
	return &Tag{kind: KindShort, intVal: int64(v)}
}

// Int creates a 32-bit integer tag.
func Int(v int32) *Tag {
	return &Tag{kind: KindInt, intVal: int64(v)}
}

// Long creates a 64-bit integer tag.
func Long(v int64) *Tag {
	return &Tag{kind: KindLong, intVal: v}
}

// Float creates a 32-bit floating point tag.
func Float(v float32) *Tag {
	return &Tag{kind: KindFloat, floatVal: float64(v)}
}

// Double creates a 64-bit floating point tag.
func Double(v float64) *Tag {
	return &Tag{kind: KindDouble, floatVal: v}
}

// String creates a string tag.
func String(v string) *Tag {
	return &Tag{kind: KindString, strVal: v}
}

// ByteArray creates a byte array tag. The slice is copied.
func ByteArray(v []byte) *Tag {
	return &Tag{kind: KindByteArray, bytesVal: append([]byte{}, v...)}
}

// IntArray creates an int array tag. The slice is copied.
func IntArray(v []int32) *Tag {
	return &Tag{kind: KindIntArray, intsVal: append([]int32{}, v...)}
}

// LongArray creates a long array tag. The slice is copied.
func LongArray(v []int64) *Tag {
	return &Tag{kind: KindLongArray, longsVal: append([]int64{}, v...)}
}

// Compound creates a compound from entries. A repeated name replaces the
// earlier value in place, so the result always has unique keys.
func Compound(entries ...Entry) *Tag {
	tag := &Tag{kind: KindCompound, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		tag.put(e.Name, e.Value)
	}
	return tag
}

// List creates a list whose elements all have kind elem.
func List(elem Kind, items ...*Tag) (*Tag, error) {
	if !elem.Valid() {
		return nil, fmt.Errorf("nbt: invalid list element kind %d", byte(elem))
	}
	for i, item := range items {
		if item == nil || item.kind != elem {
			return nil, fmt.Errorf("%w: element %d is %s, list holds %s", ErrListKind, i, item.Kind(), elem)
		}
	}
	if elem == KindEnd && len(items) > 0 {
		return nil, fmt.Errorf("%w: end list cannot hold elements", ErrListKind)
	}
	return &Tag{kind: KindList, elemKind: elem, listVal: append([]*Tag{}, items...)}, nil
}

// MustList is like List but panics on a kind mismatch. Intended for literals.
func MustList(elem Kind, items ...*Tag) *Tag {
	tag, err := List(elem, items...)
	if err != nil {
		panic(err)
	}
	return tag
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the tag variant. A nil tag reports KindEnd.
func (t *Tag) Kind() Kind {
	if t == nil {
		return KindEnd
	}
	return t.kind
}

// Int returns the integer payload of Byte, Short, Int and Long tags.
func (t *Tag) Int() int64 {
	if t == nil {
		return 0
	}
	return t.intVal
}

// Float returns the floating point payload of Float and Double tags.
func (t *Tag) Float() float64 {
	if t == nil {
		return 0
	}
	return t.floatVal
}

// Str returns the payload of a String tag.
func (t *Tag) Str() string {
	if t == nil {
		return ""
	}
	return t.strVal
}

// Bytes returns the payload of a ByteArray tag.
func (t *Tag) Bytes() []byte {
	if t == nil {
		return nil
	}
	return t.bytesVal
}

// Ints returns the payload of an IntArray tag.
func (t *Tag) Ints() []int32 {
	if t == nil {
		return nil
	}
	return t.intsVal
}

// Longs returns the payload of a LongArray tag.
func (t *Tag) Longs() []int64 {
	if t == nil {
		return nil
	}
	return t.longsVal
}

// ElemKind returns the element kind of a List tag.
func (t *Tag) ElemKind() Kind {
	if t == nil {
		return KindEnd
	}
	return t.elemKind
}

// Len returns the number of children or array elements.
func (t *Tag) Len() int {
	if t == nil {
		return 0
	}
	switch t.kind {
	case KindList:
		return len(t.listVal)
	case KindCompound:
		return len(t.entries)
	case KindByteArray:
		return len(t.bytesVal)
	case KindIntArray:
		return len(t.intsVal)
	case KindLongArray:
		return len(t.longsVal)
	default:
		return 0
	}
}

// ============================================================
// Compound operations
// ============================================================

// Get returns the named child of a compound.
func (t *Tag) Get(name string) (*Tag, bool) {
	if t.Kind() != KindCompound {
		return nil, false
	}
	for _, e := range t.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Set stores value under name, replacing an existing child in place or
// appending a new one.
func (t *Tag) Set(name string, value *Tag) error {
	if t.Kind() != KindCompound {
		return fmt.Errorf("nbt: set %q on %s tag", name, t.Kind())
	}
	if value == nil {
		return fmt.Errorf("nbt: set %q to nil tag", name)
	}
	t.put(name, value)
	return nil
}

func (t *Tag) put(name string, value *Tag) {
	for i := range t.entries {
		if t.entries[i].Name == name {
			t.entries[i].Value = value
			return
		}
	}
	t.entries = append(t.entries, Entry{Name: name, Value: value})
}

// Delete removes the named child and reports whether it existed.
func (t *Tag) Delete(name string) bool {
	if t.Kind() != KindCompound {
		return false
	}
	for i, e := range t.entries {
		if e.Name == name {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns the compound's children in insertion order.
func (t *Tag) Entries() []Entry {
	if t.Kind() != KindCompound {
		return nil
	}
	return append([]Entry{}, t.entries...)
}

// ============================================================
// List operations
// ============================================================

// Index returns the i-th element of a list.
func (t *Tag) Index(i int) (*Tag, bool) {
	if t.Kind() != KindList || i < 0 || i >= len(t.listVal) {
		return nil, false
	}
	return t.listVal[i], true
}

// SetIndex replaces the i-th element of a list.
func (t *Tag) SetIndex(i int, value *Tag) error {
	if t.Kind() != KindList {
		return fmt.Errorf("nbt: index %d on %s tag", i, t.Kind())
	}
	if i < 0 || i >= len(t.listVal) {
		return fmt.Errorf("nbt: index %d out of range [0,%d)", i, len(t.listVal))
	}
	if value == nil || value.kind != t.elemKind {
		return fmt.Errorf("%w: got %s, list holds %s", ErrListKind, value.Kind(), t.elemKind)
	}
	t.listVal[i] = value
	return nil
}

// Append adds value to the end of a list. An empty list of kind End adopts
// the kind of its first element.
func (t *Tag) Append(value *Tag) error {
	if t.Kind() != KindList {
		return fmt.Errorf("nbt: append to %s tag", t.Kind())
	}
	if value == nil {
		return fmt.Errorf("nbt: append nil tag")
	}
	if len(t.listVal) == 0 && t.elemKind == KindEnd {
		t.elemKind = value.kind
	}
	if value.kind != t.elemKind {
		return fmt.Errorf("%w: got %s, list holds %s", ErrListKind, value.kind, t.elemKind)
	}
	t.listVal = append(t.listVal, value)
	return nil
}

// Items returns the list's elements in order.
func (t *Tag) Items() []*Tag {
	if t.Kind() != KindList {
		return nil
	}
	return append([]*Tag{}, t.listVal...)
}

// ============================================================
// Copying
// ============================================================

// Clone returns a deep copy of t.
func (t *Tag) Clone() *Tag {
	if t == nil {
		return nil
	}
	out := &Tag{
		kind:     t.kind,
		intVal:   t.intVal,
		floatVal: t.floatVal,
		strVal:   t.strVal,
		elemKind: t.elemKind,
	}
	if t.bytesVal != nil {
		out.bytesVal = append([]byte{}, t.bytesVal...)
	}
	if t.intsVal != nil {
		out.intsVal = append([]int32{}, t.intsVal...)
	}
	if t.longsVal != nil {
		out.longsVal = append([]int64{}, t.longsVal...)
	}
	if t.listVal != nil {
		out.listVal = make([]*Tag, len(t.listVal))
		for i, item := range t.listVal {
			out.listVal[i] = item.Clone()
		}
	}
	if t.entries != nil {
		out.entries = make([]Entry, len(t.entries))
		for i, e := range t.entries {
			out.entries[i] = Entry{Name: e.Name, Value: e.Value.Clone()}
		}
	}
	return out
}
