package borsh

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// Record is an ordered, named-field value validated against a record
// descriptor. It is immutable once constructed; decoding or rebuilding
// produces a new instance.
type Record struct {
	names  []string
	values map[string]any
}

// Variant is a tagged union value with exactly one active field. The active
// field name is its discriminant; Index is that name's declaration position.
type Variant struct {
	name  string
	index int
	value any
}

// NewRecord builds a Record from a property bag. Every declared field must
// be present and no undeclared name may appear; each value is validated and
// normalized against its field descriptor.
func (r *Registry) NewRecord(desc Descriptor, fields map[string]any) (*Record, error) {
	d, err := r.deref(desc)
	if err != nil {
		return nil, err
	}
	if d.kind != KindRecord {
		return nil, &EncodingError{Reason: fmt.Sprintf("descriptor is a %v, not a record", d.kind), Err: ErrTypeMismatch}
	}
	return r.normalizeRecord(d, fields, pathOf(desc))
}

// NewVariant builds a Variant from a property bag holding exactly one entry
// whose name is a declared variant of desc.
func (r *Registry) NewVariant(desc Descriptor, fields map[string]any) (*Variant, error) {
	d, err := r.deref(desc)
	if err != nil {
		return nil, err
	}
	if d.kind != KindUnion {
		return nil, &EncodingError{Reason: fmt.Sprintf("descriptor is a %v, not a union", d.kind), Err: ErrTypeMismatch}
	}
	return r.normalizeUnionBag(d, fields, pathOf(desc))
}

// VariantOf builds a Variant with name active and payload as its value. An
// empty-record payload may be passed as nil.
func (r *Registry) VariantOf(desc Descriptor, name string, payload any) (*Variant, error) {
	return r.NewVariant(desc, map[string]any{name: payload})
}

// Get returns the value of a declared field.
func (rec *Record) Get(name string) (any, error) {
	v, ok := rec.values[name]
	if !ok {
		return nil, Errorf(ErrMissingField, "%q", name)
	}
	return v, nil
}

// Fields returns the field names in declaration order.
func (rec *Record) Fields() []string {
	return append([]string(nil), rec.names...)
}

// Len returns the number of fields.
func (rec *Record) Len() int {
	return len(rec.names)
}

// Equal reports whether both records hold the same fields in the same order
// with equal values.
func (rec *Record) Equal(other *Record) bool {
	if rec == nil || other == nil {
		return rec == other
	}
	if len(rec.names) != len(other.names) {
		return false
	}
	for i, name := range rec.names {
		if other.names[i] != name {
			return false
		}
		if !valuesEqual(rec.values[name], other.values[name]) {
			return false
		}
	}
	return true
}

func (rec *Record) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range rec.names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", name, formatValue(rec.values[name]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Tag returns the active field name.
func (v *Variant) Tag() string { return v.name }

// Index returns the declaration position of the active field, which is the
// encoded discriminant.
func (v *Variant) Index() int { return v.index }

// Value returns the payload of the active field.
func (v *Variant) Value() any { return v.value }

// Is reports whether name is the active field.
func (v *Variant) Is(name string) bool { return v.name == name }

// Field returns the payload of name. Reading a field that is not active is
// an error.
func (v *Variant) Field(name string) (any, error) {
	if name != v.name {
		return nil, Errorf(ErrInvalidVariant, "field %q is not active (active: %q)", name, v.name)
	}
	return v.value, nil
}

// Equal reports whether both variants have the same active field and equal
// payloads.
func (v *Variant) Equal(other *Variant) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.name == other.name && v.index == other.index && valuesEqual(v.value, other.value)
}

func (v *Variant) String() string {
	if rec, ok := v.value.(*Record); ok && rec.Len() == 0 {
		return v.name
	}
	return fmt.Sprintf("%s(%s)", v.name, formatValue(v.value))
}

// Get is a typed accessor for record fields.
func Get[T any](rec *Record, name string) (T, error) {
	var zero T
	raw, err := rec.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, Errorf(ErrTypeMismatch, "field %q holds %T, want %T", name, raw, zero)
	}
	return typed, nil
}

// Normalization --------------------------------------------------------------

// normalize validates v against d and returns its canonical form: integers as
// the exact Go type for their width and signedness, fixed bytes as a private
// copy, arrays as []any, records as *Record and unions as *Variant.
func (r *Registry) normalize(d Descriptor, v any, path string) (any, error) {
	switch d.kind {
	case KindRef:
		target, err := r.deref(d)
		if err != nil {
			return nil, &EncodingError{Path: path, Reason: "unresolved reference", Err: err}
		}
		return r.normalize(target, v, path)
	case KindPrimitive:
		return normalizeInt(d, v, path)
	case KindFixedBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, mismatch(path, d, v)
		}
		if len(b) != d.length {
			return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("got %d bytes, want %d", len(b), d.length), Err: ErrLengthMismatch}
		}
		return append([]byte(nil), b...), nil
	case KindFixedArray:
		elems, ok := v.([]any)
		if !ok {
			return nil, mismatch(path, d, v)
		}
		if len(elems) != d.length {
			return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("got %d elements, want %d", len(elems), d.length), Err: ErrLengthMismatch}
		}
		out := make([]any, len(elems))
		elem := d.Elem()
		for i, e := range elems {
			ne, err := r.normalize(elem, e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case KindRecord:
		switch rv := v.(type) {
		case *Record:
			if rv == nil {
				return nil, mismatch(path, d, v)
			}
			return r.normalizeRecord(d, rv.values, path)
		case map[string]any:
			return r.normalizeRecord(d, rv, path)
		case nil:
			if len(d.fields) == 0 {
				return &Record{values: map[string]any{}}, nil
			}
			return nil, &EncodingError{Path: path, Reason: "nil value for non-empty record", Err: ErrMissingField}
		default:
			return nil, mismatch(path, d, v)
		}
	case KindUnion:
		switch uv := v.(type) {
		case *Variant:
			if uv == nil {
				return nil, &EncodingError{Path: path, Reason: "nil variant", Err: ErrInvalidVariant}
			}
			return r.normalizeUnionBag(d, map[string]any{uv.name: uv.value}, path)
		case map[string]any:
			return r.normalizeUnionBag(d, uv, path)
		default:
			return nil, mismatch(path, d, v)
		}
	default:
		return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("unknown descriptor kind %v", d.kind), Err: ErrInvalidDescriptor}
	}
}

func (r *Registry) normalizeRecord(d Descriptor, fields map[string]any, path string) (*Record, error) {
	for name := range fields {
		if d.FieldIndex(name) < 0 {
			return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("field %q is not declared", name), Err: ErrUnknownField}
		}
	}
	rec := &Record{names: make([]string, len(d.fields)), values: make(map[string]any, len(d.fields))}
	for i, f := range d.fields {
		raw, ok := fields[f.Name]
		if !ok {
			return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("field %q not set", f.Name), Err: ErrMissingField}
		}
		nv, err := r.normalize(f.Type, raw, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		rec.names[i] = f.Name
		rec.values[f.Name] = nv
	}
	return rec, nil
}

func (r *Registry) normalizeUnionBag(d Descriptor, fields map[string]any, path string) (*Variant, error) {
	if len(fields) != 1 {
		return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("%d fields set, want exactly 1", len(fields)), Err: ErrInvalidVariant}
	}
	for name, payload := range fields {
		idx := d.FieldIndex(name)
		if idx < 0 {
			return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("%q is not a declared variant", name), Err: ErrInvalidVariant}
		}
		nv, err := r.normalize(d.fields[idx].Type, payload, path+"."+name)
		if err != nil {
			return nil, err
		}
		return &Variant{name: name, index: idx, value: nv}, nil
	}
	panic("unreachable")
}

// normalizeInt accepts any built-in integer type and converts it to the
// canonical type for d after a range check.
func normalizeInt(d Descriptor, v any, path string) (any, error) {
	var (
		neg bool
		mag uint64
	)
	switch n := v.(type) {
	case int:
		neg, mag = splitSigned(int64(n))
	case int8:
		neg, mag = splitSigned(int64(n))
	case int16:
		neg, mag = splitSigned(int64(n))
	case int32:
		neg, mag = splitSigned(int64(n))
	case int64:
		neg, mag = splitSigned(n)
	case uint:
		mag = uint64(n)
	case uint8:
		mag = uint64(n)
	case uint16:
		mag = uint64(n)
	case uint32:
		mag = uint64(n)
	case uint64:
		mag = n
	default:
		return nil, mismatch(path, d, v)
	}

	bits := uint(d.width * 8)
	if !d.signed {
		if neg || (bits < 64 && mag > (uint64(1)<<bits)-1) {
			return nil, outOfRange(path, d, v)
		}
		switch d.width {
		case 1:
			return uint8(mag), nil
		case 2:
			return uint16(mag), nil
		case 4:
			return uint32(mag), nil
		case 8:
			return mag, nil
		}
	} else {
		limit := uint64(1) << (bits - 1) // |min|; max is limit-1
		if (!neg && mag > limit-1) || (neg && mag > limit) {
			return nil, outOfRange(path, d, v)
		}
		var s int64
		if neg {
			s = int64(-mag) // two's complement; mag == 1<<63 maps to MinInt64
		} else {
			s = int64(mag)
		}
		switch d.width {
		case 1:
			return int8(s), nil
		case 2:
			return int16(s), nil
		case 4:
			return int32(s), nil
		case 8:
			return s, nil
		}
	}
	return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("primitive width %d", d.width), Err: ErrInvalidDescriptor}
}

func splitSigned(n int64) (bool, uint64) {
	if n < 0 {
		if n == math.MinInt64 {
			return true, uint64(1) << 63
		}
		return true, uint64(-n)
	}
	return false, uint64(n)
}

func outOfRange(path string, d Descriptor, v any) error {
	return &EncodingError{Path: path, Reason: fmt.Sprintf("%v does not fit %s", v, d), Err: ErrValueOutOfRange}
}

func mismatch(path string, d Descriptor, v any) error {
	return &EncodingError{Path: path, Reason: fmt.Sprintf("%T cannot encode as %s", v, d), Err: ErrTypeMismatch}
}

func pathOf(d Descriptor) string {
	if d.kind == KindRef {
		return d.ref
	}
	return ""
}

func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case *Record:
		bv, ok := b.(*Record)
		return ok && av.Equal(bv)
	case *Variant:
		bv, ok := b.(*Variant)
		return ok && av.Equal(bv)
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func formatValue(v any) string {
	switch tv := v.(type) {
	case []byte:
		return fmt.Sprintf("0x%x", tv)
	case []any:
		parts := make([]string, len(tv))
		for i, e := range tv {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case fmt.Stringer:
		return tv.String()
	default:
		return fmt.Sprint(v)
	}
}
