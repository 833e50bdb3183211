package nbt

import "math"

// Equal reports whether a and b are structurally equal: same kind and
// payload at every node. Compound key order is ignored; list order is not.
// Floating point payloads compare by bit pattern so NaN equals itself.
func Equal(a, b *Tag) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindByte, KindShort, KindInt, KindLong:
		return a.intVal == b.intVal
	case KindFloat, KindDouble:
		return math.Float64bits(a.floatVal) == math.Float64bits(b.floatVal)
	case KindString:
		return a.strVal == b.strVal
	case KindByteArray:
		return equalSlices(a.bytesVal, b.bytesVal)
	case KindIntArray:
		return equalSlices(a.intsVal, b.intsVal)
	case KindLongArray:
		return equalSlices(a.longsVal, b.longsVal)
	case KindList:
		if len(a.listVal) != len(b.listVal) {
			return false
		}
		if len(a.listVal) > 0 && a.elemKind != b.elemKind {
			return false
		}
		for i := range a.listVal {
			if !Equal(a.listVal[i], b.listVal[i]) {
				return false
			}
		}
		return true
	case KindCompound:
		if len(a.entries) != len(b.entries) {
			return false
		}
		for _, e := range a.entries {
			other, ok := b.Get(e.Name)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
