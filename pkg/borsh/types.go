package borsh

import (
	"fmt"
	"strings"
)

// Kind is the discriminant of a Descriptor. The set is closed: every switch
// over Kind in this package handles all of them.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindFixedBytes
	KindFixedArray
	KindRecord
	KindUnion
	KindRef
)

// Descriptor is an immutable description of one encodable shape.
//
// Descriptors are plain values built with the constructors below. They are
// validated when registered with a Builder. Ad-hoc descriptors passed
// straight to Encode or Decode can be checked once with Registry.Validate.
type Descriptor struct {
	kind   Kind
	width  int
	signed bool
	length int
	elem   *Descriptor
	fields []Field
	ref    string
}

// Field is a named member of a Record or a named alternative of a Union.
type Field struct {
	Name string
	Type Descriptor
}

// Constructors -------------------------------------------------------------

// Primitive describes a little-endian integer of the given byte width.
func Primitive(width int, signed bool) Descriptor {
	return Descriptor{kind: KindPrimitive, width: width, signed: signed}
}

func U8() Descriptor  { return Primitive(1, false) }
func U16() Descriptor { return Primitive(2, false) }
func U32() Descriptor { return Primitive(4, false) }
func U64() Descriptor { return Primitive(8, false) }
func I8() Descriptor  { return Primitive(1, true) }
func I16() Descriptor { return Primitive(2, true) }
func I32() Descriptor { return Primitive(4, true) }
func I64() Descriptor { return Primitive(8, true) }

// FixedBytes describes exactly n raw bytes with no size prefix.
func FixedBytes(n int) Descriptor {
	return Descriptor{kind: KindFixedBytes, length: n}
}

// FixedArray describes count consecutive encodings of elem.
func FixedArray(elem Descriptor, count int) Descriptor {
	return Descriptor{kind: KindFixedArray, elem: &elem, length: count}
}

// RecordOf describes an ordered record. Field order is encoding order.
func RecordOf(fields ...Field) Descriptor {
	return Descriptor{kind: KindRecord, fields: append([]Field(nil), fields...)}
}

// UnionOf describes a tagged union. The position of each variant is its
// one-byte discriminant.
func UnionOf(variants ...Field) Descriptor {
	return Descriptor{kind: KindUnion, fields: append([]Field(nil), variants...)}
}

// Ref refers to a descriptor registered under id. It is resolved through the
// Registry on every use.
func Ref(id string) Descriptor {
	return Descriptor{kind: KindRef, ref: id}
}

// F is shorthand for building a Field.
func F(name string, typ Descriptor) Field {
	return Field{Name: name, Type: typ}
}

// Accessors ----------------------------------------------------------------

func (d Descriptor) Kind() Kind { return d.kind }

// Width is the byte width of a Primitive.
func (d Descriptor) Width() int { return d.width }

// Signed reports whether a Primitive is a signed integer.
func (d Descriptor) Signed() bool { return d.signed }

// Len is the byte length of FixedBytes or the element count of FixedArray.
func (d Descriptor) Len() int { return d.length }

// Elem is the element descriptor of a FixedArray.
func (d Descriptor) Elem() Descriptor {
	if d.elem == nil {
		return Descriptor{}
	}
	return *d.elem
}

// Fields returns a copy of the record fields or union variants.
func (d Descriptor) Fields() []Field {
	return append([]Field(nil), d.fields...)
}

// NumFields is the number of record fields or union variants.
func (d Descriptor) NumFields() int { return len(d.fields) }

// FieldIndex returns the declaration position of name, or -1.
func (d Descriptor) FieldIndex(name string) int {
	for i, f := range d.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// RefID is the registry identifier of a Ref.
func (d Descriptor) RefID() string { return d.ref }

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindFixedBytes:
		return "fixed_bytes"
	case KindFixedArray:
		return "fixed_array"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindRef:
		return "ref"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// String renders the descriptor in a compact Rust-like notation, e.g.
// "{playField: [<empty|tic|tac>; 9], status: Status}".
func (d Descriptor) String() string {
	var sb strings.Builder
	d.writeString(&sb)
	return sb.String()
}

func (d Descriptor) writeString(sb *strings.Builder) {
	switch d.kind {
	case KindPrimitive:
		if d.signed {
			fmt.Fprintf(sb, "i%d", d.width*8)
		} else {
			fmt.Fprintf(sb, "u%d", d.width*8)
		}
	case KindFixedBytes:
		fmt.Fprintf(sb, "[u8; %d]", d.length)
	case KindFixedArray:
		sb.WriteByte('[')
		d.Elem().writeString(sb)
		fmt.Fprintf(sb, "; %d]", d.length)
	case KindRecord:
		sb.WriteByte('{')
		for i, f := range d.fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Type.writeString(sb)
		}
		sb.WriteByte('}')
	case KindUnion:
		sb.WriteByte('<')
		for i, f := range d.fields {
			if i > 0 {
				sb.WriteByte('|')
			}
			sb.WriteString(f.Name)
			if f.Type.kind != KindRecord || len(f.Type.fields) > 0 {
				sb.WriteByte('(')
				f.Type.writeString(sb)
				sb.WriteByte(')')
			}
		}
		sb.WriteByte('>')
	case KindRef:
		sb.WriteString(d.ref)
	}
}

// validate checks the structural rules of d without resolving references.
// It runs once per descriptor at registration time.
func (d Descriptor) validate(path string) error {
	switch d.kind {
	case KindPrimitive:
		switch d.width {
		case 1, 2, 4, 8:
			return nil
		}
		return Errorf(ErrInvalidDescriptor, "%s: primitive width %d not in {1,2,4,8}", path, d.width)
	case KindFixedBytes:
		if d.length <= 0 {
			return Errorf(ErrInvalidDescriptor, "%s: fixed bytes length %d must be > 0", path, d.length)
		}
		return nil
	case KindFixedArray:
		if d.length < 0 {
			return Errorf(ErrInvalidDescriptor, "%s: fixed array count %d must be >= 0", path, d.length)
		}
		if d.elem == nil {
			return Errorf(ErrInvalidDescriptor, "%s: fixed array without element type", path)
		}
		return d.elem.validate(path + "[]")
	case KindRecord, KindUnion:
		if d.kind == KindUnion && len(d.fields) == 0 {
			return Errorf(ErrInvalidDescriptor, "%s: union declares no variants", path)
		}
		seen := make(map[string]struct{}, len(d.fields))
		for _, f := range d.fields {
			if f.Name == "" {
				return Errorf(ErrInvalidDescriptor, "%s: empty %s name", path, memberWord(d.kind))
			}
			if _, dup := seen[f.Name]; dup {
				return Errorf(ErrInvalidDescriptor, "%s: duplicate %s %q", path, memberWord(d.kind), f.Name)
			}
			seen[f.Name] = struct{}{}
			if err := f.Type.validate(path + "." + f.Name); err != nil {
				return err
			}
		}
		if d.kind == KindUnion && len(d.fields) > 256 {
			return Errorf(ErrInvalidDescriptor, "%s: %d variants exceed one-byte discriminant", path, len(d.fields))
		}
		return nil
	case KindRef:
		if d.ref == "" {
			return Errorf(ErrInvalidDescriptor, "%s: empty type reference", path)
		}
		return nil
	default:
		return Errorf(ErrInvalidDescriptor, "%s: unknown kind %v", path, d.kind)
	}
}

func memberWord(k Kind) string {
	if k == KindUnion {
		return "variant"
	}
	return "field"
}
