package borsh

import (
	"fmt"
)

// Decode reads one value of shape desc from buf starting at cursor. It
// returns the reconstructed value and the cursor just past it. Bytes beyond
// that point are left for the caller. On failure no value is returned.
func (r *Registry) Decode(buf []byte, cursor int, desc Descriptor) (any, int, error) {
	rd := NewReader(buf, cursor)
	if err := rd.Error(); err != nil {
		return nil, cursor, &DecodingError{Path: pathOf(desc), Offset: cursor, Reason: "invalid cursor", Err: err}
	}
	v, err := r.DecodeFrom(rd, desc)
	if err != nil {
		return nil, cursor, err
	}
	return v, rd.Pos(), nil
}

// DecodeType decodes a value of the type registered under id from the start
// of buf, returning the value and the number of bytes consumed.
func (r *Registry) DecodeType(id string, buf []byte) (any, int, error) {
	if _, err := r.Resolve(id); err != nil {
		return nil, 0, err
	}
	return r.Decode(buf, 0, Ref(id))
}

// DecodeFrom reads one value of shape desc from rd.
func (r *Registry) DecodeFrom(rd *Reader, desc Descriptor) (any, error) {
	if err := checkRoot(desc); err != nil {
		return nil, err
	}
	return r.read(rd, desc, pathOf(desc))
}

func (r *Registry) read(rd *Reader, d Descriptor, path string) (any, error) {
	start := rd.Pos()
	fail := func(reason string, err error) error {
		return &DecodingError{Path: path, Offset: start, Reason: reason, Err: err}
	}

	switch d.kind {
	case KindRef:
		target, err := r.deref(d)
		if err != nil {
			return nil, fail("unresolved reference", err)
		}
		return r.read(rd, target, path)
	case KindPrimitive:
		if d.signed {
			n, err := rd.ReadInt(d.width)
			if err != nil {
				return nil, fail(fmt.Sprintf("reading %s", d), ErrTruncatedInput)
			}
			switch d.width {
			case 1:
				return int8(n), nil
			case 2:
				return int16(n), nil
			case 4:
				return int32(n), nil
			case 8:
				return n, nil
			}
		} else {
			n, err := rd.ReadUint(d.width)
			if err != nil {
				return nil, fail(fmt.Sprintf("reading %s", d), ErrTruncatedInput)
			}
			switch d.width {
			case 1:
				return uint8(n), nil
			case 2:
				return uint16(n), nil
			case 4:
				return uint32(n), nil
			case 8:
				return n, nil
			}
		}
		return nil, fail(fmt.Sprintf("primitive width %d", d.width), ErrInvalidDescriptor)
	case KindFixedBytes:
		b, err := rd.ReadFixed(d.length)
		if err != nil {
			return nil, fail(fmt.Sprintf("need %d bytes, have %d", d.length, rd.Remaining()), err)
		}
		return b, nil
	case KindFixedArray:
		elem := d.Elem()
		least, err := r.sizeBound(elem, smaller)
		if err != nil {
			return nil, fail("sizing element", err)
		}
		if least > 0 && d.length > rd.Remaining()/least {
			return nil, fail(fmt.Sprintf("%d elements of at least %d bytes, have %d", d.length, least, rd.Remaining()), ErrTruncatedInput)
		}
		out := make([]any, 0, min(d.length, rd.Remaining()+1))
		for i := 0; i < d.length; i++ {
			e, err := r.read(rd, elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case KindRecord:
		rec := &Record{names: make([]string, len(d.fields)), values: make(map[string]any, len(d.fields))}
		for i, f := range d.fields {
			v, err := r.read(rd, f.Type, path+"."+f.Name)
			if err != nil {
				return nil, err
			}
			rec.names[i] = f.Name
			rec.values[f.Name] = v
		}
		return rec, nil
	case KindUnion:
		tag, err := rd.ReadDiscriminant()
		if err != nil {
			return nil, fail("reading discriminant", ErrTruncatedInput)
		}
		if int(tag) >= len(d.fields) {
			return nil, fail(fmt.Sprintf("discriminant %d, union declares %d variants", tag, len(d.fields)), ErrUnknownDiscriminant)
		}
		f := d.fields[tag]
		payload, err := r.read(rd, f.Type, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		return &Variant{name: f.Name, index: int(tag), value: payload}, nil
	default:
		return nil, fail(fmt.Sprintf("unknown descriptor kind %v", d.kind), ErrInvalidDescriptor)
	}
}
