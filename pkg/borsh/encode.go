package borsh

import (
	"bytes"
	"fmt"
)

// Encode validates value against desc and returns its fixed-layout encoding.
// Nothing is emitted unless the whole value tree is valid.
func (r *Registry) Encode(value any, desc Descriptor) ([]byte, error) {
	if err := checkRoot(desc); err != nil {
		return nil, err
	}
	canon, err := r.normalize(desc, value, pathOf(desc))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := r.emit(w, desc, canon); err != nil {
		return nil, err
	}
	if err := w.Error(); err != nil {
		return nil, &EncodingError{Path: pathOf(desc), Reason: "write failed", Err: err}
	}
	return buf.Bytes(), nil
}

// EncodeType encodes value with the descriptor registered under id.
func (r *Registry) EncodeType(id string, value any) ([]byte, error) {
	if _, err := r.Resolve(id); err != nil {
		return nil, err
	}
	return r.Encode(value, Ref(id))
}

// EncodeTo writes the encoding of value to w. Like Encode, it writes nothing
// when value is invalid.
func (r *Registry) EncodeTo(w *Writer, value any, desc Descriptor) error {
	if err := checkRoot(desc); err != nil {
		return err
	}
	canon, err := r.normalize(desc, value, pathOf(desc))
	if err != nil {
		return err
	}
	if err := r.emit(w, desc, canon); err != nil {
		return err
	}
	return w.Error()
}

// emit writes a canonical value produced by normalize. Shapes were checked
// there, so the assertions below hold.
func (r *Registry) emit(w *Writer, d Descriptor, v any) error {
	switch d.kind {
	case KindRef:
		target, err := r.deref(d)
		if err != nil {
			return err
		}
		return r.emit(w, target, v)
	case KindPrimitive:
		switch n := v.(type) {
		case uint8:
			w.WriteUint8(n)
		case uint16:
			w.WriteUint16(n)
		case uint32:
			w.WriteUint32(n)
		case uint64:
			w.WriteUint64(n)
		case int8:
			w.WriteInt8(n)
		case int16:
			w.WriteInt16(n)
		case int32:
			w.WriteInt32(n)
		case int64:
			w.WriteInt64(n)
		default:
			return fmt.Errorf("borsh: emit primitive: unexpected %T", v)
		}
	case KindFixedBytes:
		w.WriteFixed(v.([]byte))
	case KindFixedArray:
		elem := d.Elem()
		for _, e := range v.([]any) {
			if err := r.emit(w, elem, e); err != nil {
				return err
			}
		}
	case KindRecord:
		rec := v.(*Record)
		for _, f := range d.fields {
			if err := r.emit(w, f.Type, rec.values[f.Name]); err != nil {
				return err
			}
		}
	case KindUnion:
		variant := v.(*Variant)
		w.WriteDiscriminant(uint8(variant.index))
		return r.emit(w, d.fields[variant.index].Type, variant.value)
	default:
		return fmt.Errorf("borsh: emit: unknown kind %v", d.kind)
	}
	return nil
}
