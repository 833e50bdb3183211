package nbt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/gzip"

	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
)

// MaxDepth bounds compound/list nesting on both decode and encode.
const MaxDepth = 512

// MaxDocumentSize bounds the decompressed size Decode accepts.
const MaxDocumentSize = 64 << 20

// ErrFormat matches (via errors.Is) every malformed-document error.
var ErrFormat = apperrors.New(apperrors.CodeFormat, "malformed document")

func formatError(format string, args ...any) error {
	return apperrors.New(apperrors.CodeFormat, fmt.Sprintf(format, args...))
}

// ============================================================
// Decoding
// ============================================================

// Decode reads one gzip-compressed document from r. On any error no
// document is returned.
func Decode(r io.Reader) (*Document, error) {
	return DecodeLimited(r, MaxDocumentSize)
}

// DecodeLimited is Decode with a limit on the decompressed size in bytes.
func DecodeLimited(r io.Reader, limit int64) (*Document, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFormat, "open gzip stream", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFormat, "decompress document", err)
	}
	if int64(len(raw)) > limit {
		return nil, formatError("decompressed document exceeds %d bytes", limit)
	}
	return Unmarshal(raw)
}

// DecodeBytes decodes a gzip-compressed document held in memory.
func DecodeBytes(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// Unmarshal decodes an uncompressed document. Trailing bytes after the root
// compound are ignored.
func Unmarshal(raw []byte) (*Document, error) {
	d := &decoder{buf: raw}
	kind, err := d.readKind()
	if err != nil {
		return nil, err
	}
	if kind != KindCompound {
		return nil, formatError("root tag is %s, want compound", kind)
	}
	name, err := d.readString()
	if err != nil {
		return nil, err
	}
	root, err := d.readPayload(KindCompound)
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, Root: root}, nil
}

type decoder struct {
	buf   []byte
	off   int
	depth int
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || len(d.buf)-d.off < n {
		return nil, formatError("truncated input: need %d bytes at offset %d, have %d", n, d.off, len(d.buf)-d.off)
	}
	out := d.buf[d.off : d.off+n]
	d.off += n
	return out, nil
}

func (d *decoder) readKind() (Kind, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	kind := Kind(b[0])
	if !kind.Valid() {
		return 0, formatError("unknown tag kind id %d at offset %d", b[0], d.off-1)
	}
	return kind, nil
}

func (d *decoder) readString() (string, error) {
	b, err := d.take(2)
	if err != nil {
		return "", err
	}
	s, err := d.take(int(binary.BigEndian.Uint16(b)))
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// readLen reads a signed 32-bit element count.
func (d *decoder) readLen() (int, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	n := int32(binary.BigEndian.Uint32(b))
	if n < 0 {
		return 0, formatError("negative length %d at offset %d", n, d.off-4)
	}
	return int(n), nil
}

func (d *decoder) readPayload(kind Kind) (*Tag, error) {
	switch kind {
	case KindByte:
		b, err := d.take(1)
		if err != nil {
			return nil, err
		}
		return Byte(int8(b[0])), nil
	case KindShort:
		b, err := d.take(2)
		if err != nil {
			return nil, err
		}
		return Short(int16(binary.BigEndian.Uint16(b))), nil
	case KindInt:
		b, err := d.take(4)
		if err != nil {
			return nil, err
		}
		return Int(int32(binary.BigEndian.Uint32(b))), nil
	case KindLong:
		b, err := d.take(8)
		if err != nil {
			return nil, err
		}
		return Long(int64(binary.BigEndian.Uint64(b))), nil
	case KindFloat:
		b, err := d.take(4)
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case KindDouble:
		b, err := d.take(8)
		if err != nil {
			return nil, err
		}
		return Double(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case KindString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case KindByteArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n)
		if err != nil {
			return nil, err
		}
		return ByteArray(b), nil
	case KindIntArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n * 4)
		if err != nil {
			return nil, err
		}
		vals := make([]int32, n)
		for i := range vals {
			vals[i] = int32(binary.BigEndian.Uint32(b[i*4:]))
		}
		return &Tag{kind: KindIntArray, intsVal: vals}, nil
	case KindLongArray:
		n, err := d.readLen()
		if err != nil {
			return nil, err
		}
		b, err := d.take(n * 8)
		if err != nil {
			return nil, err
		}
		vals := make([]int64, n)
		for i := range vals {
			vals[i] = int64(binary.BigEndian.Uint64(b[i*8:]))
		}
		return &Tag{kind: KindLongArray, longsVal: vals}, nil
	case KindList:
		return d.readList()
	case KindCompound:
		return d.readCompound()
	default:
		return nil, formatError("unexpected %s payload at offset %d", kind, d.off)
	}
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > MaxDepth {
		return formatError("nesting deeper than %d at offset %d", MaxDepth, d.off)
	}
	return nil
}

func (d *decoder) readList() (*Tag, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	elem, err := d.readKind()
	if err != nil {
		return nil, err
	}
	n, err := d.readLen()
	if err != nil {
		return nil, err
	}
	if elem == KindEnd && n > 0 {
		return nil, formatError("list of %d elements declares element kind end", n)
	}
	// Each element consumes at least one byte, so the remaining input bounds
	// the allocation.
	items := make([]*Tag, 0, min(n, len(d.buf)-d.off))
	for i := 0; i < n; i++ {
		item, err := d.readPayload(elem)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &Tag{kind: KindList, elemKind: elem, listVal: items}, nil
}

func (d *decoder) readCompound() (*Tag, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	tag := &Tag{kind: KindCompound}
	for {
		if d.off >= len(d.buf) {
			return nil, formatError("compound missing end marker at offset %d", d.off)
		}
		kind, err := d.readKind()
		if err != nil {
			return nil, err
		}
		if kind == KindEnd {
			return tag, nil
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		if _, dup := tag.Get(name); dup {
			return nil, formatError("duplicate compound key %q at offset %d", name, d.off)
		}
		value, err := d.readPayload(kind)
		if err != nil {
			return nil, err
		}
		tag.entries = append(tag.entries, Entry{Name: name, Value: value})
	}
}

// ============================================================
// Encoding
// ============================================================

// Encode writes doc to w as a gzip-compressed stream. A tree that violates
// the model (nil nodes, mixed lists, oversized names) is rejected with a
// FORMAT_ERROR before anything is written.
func Encode(w io.Writer, doc *Document) error {
	raw, err := Marshal(doc)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(raw); err != nil {
		_ = zw.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush document: %w", err)
	}
	return nil
}

// EncodeBytes encodes doc into a new gzip-compressed buffer.
func EncodeBytes(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal encodes doc without compression.
func Marshal(doc *Document) ([]byte, error) {
	if doc == nil || doc.Root.Kind() != KindCompound {
		return nil, formatError("document root must be a compound")
	}
	e := &encoder{}
	e.buf = append(e.buf, byte(KindCompound))
	if err := e.writeString(doc.Name); err != nil {
		return nil, err
	}
	if err := e.writePayload(doc.Root); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	buf   []byte
	depth int
}

func (e *encoder) writeString(s string) error {
	if len(s) > math.MaxUint16 {
		return formatError("string of %d bytes exceeds %d", len(s), math.MaxUint16)
	}
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

func (e *encoder) writeLen(n int) error {
	if n > math.MaxInt32 {
		return formatError("length %d exceeds %d", n, math.MaxInt32)
	}
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(n))
	return nil
}

func (e *encoder) writePayload(t *Tag) error {
	if t == nil {
		return formatError("nil tag in document")
	}
	switch t.kind {
	case KindByte:
		e.buf = append(e.buf, byte(t.intVal))
	case KindShort:
		e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(t.intVal))
	case KindInt:
		e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(t.intVal))
	case KindLong:
		e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(t.intVal))
	case KindFloat:
		e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(float32(t.floatVal)))
	case KindDouble:
		e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(t.floatVal))
	case KindString:
		return e.writeString(t.strVal)
	case KindByteArray:
		if err := e.writeLen(len(t.bytesVal)); err != nil {
			return err
		}
		e.buf = append(e.buf, t.bytesVal...)
	case KindIntArray:
		if err := e.writeLen(len(t.intsVal)); err != nil {
			return err
		}
		for _, v := range t.intsVal {
			e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(v))
		}
	case KindLongArray:
		if err := e.writeLen(len(t.longsVal)); err != nil {
			return err
		}
		for _, v := range t.longsVal {
			e.buf = binary.BigEndian.AppendUint64(e.buf, uint64(v))
		}
	case KindList:
		return e.writeList(t)
	case KindCompound:
		return e.writeCompound(t)
	default:
		return formatError("cannot encode %s tag", t.kind)
	}
	return nil
}

func (e *encoder) enter() error {
	e.depth++
	if e.depth > MaxDepth {
		return formatError("nesting deeper than %d", MaxDepth)
	}
	return nil
}

func (e *encoder) writeList(t *Tag) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	elem := t.elemKind
	if elem == KindEnd && len(t.listVal) > 0 {
		return formatError("list of %d elements declares element kind end", len(t.listVal))
	}
	e.buf = append(e.buf, byte(elem))
	if err := e.writeLen(len(t.listVal)); err != nil {
		return err
	}
	for i, item := range t.listVal {
		if item.Kind() != elem {
			return apperrors.Wrap(apperrors.CodeFormat,
				fmt.Sprintf("list element %d is %s, list holds %s", i, item.Kind(), elem), ErrListKind)
		}
		if err := e.writePayload(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeCompound(t *Tag) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer func() { e.depth-- }()

	for _, entry := range t.entries {
		if entry.Value == nil {
			return formatError("compound entry %q is nil", entry.Name)
		}
		e.buf = append(e.buf, byte(entry.Value.kind))
		if err := e.writeString(entry.Name); err != nil {
			return err
		}
		if err := e.writePayload(entry.Value); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, byte(KindEnd))
	return nil
}
