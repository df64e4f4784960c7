package borsh

import (
	"fmt"
	"math"
)

// Zero returns the default value of desc: zero integers, zeroed bytes, and
// the first variant of every union. It is the one place where fields are
// filled in without the caller providing them.
func (r *Registry) Zero(desc Descriptor) (any, error) {
	if err := checkRoot(desc); err != nil {
		return nil, err
	}
	return r.zero(desc)
}

func (r *Registry) zero(desc Descriptor) (any, error) {
	switch desc.kind {
	case KindRef:
		target, err := r.deref(desc)
		if err != nil {
			return nil, err
		}
		return r.zero(target)
	case KindPrimitive:
		return normalizeInt(desc, 0, pathOf(desc))
	case KindFixedBytes:
		return make([]byte, desc.length), nil
	case KindFixedArray:
		out := make([]any, desc.length)
		for i := range out {
			e, err := r.zero(desc.Elem())
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case KindRecord:
		rec := &Record{names: make([]string, len(desc.fields)), values: make(map[string]any, len(desc.fields))}
		for i, f := range desc.fields {
			v, err := r.zero(f.Type)
			if err != nil {
				return nil, err
			}
			rec.names[i] = f.Name
			rec.values[f.Name] = v
		}
		return rec, nil
	case KindUnion:
		if len(desc.fields) == 0 {
			return nil, Errorf(ErrInvalidDescriptor, "union declares no variants")
		}
		v, err := r.zero(desc.fields[0].Type)
		if err != nil {
			return nil, err
		}
		return &Variant{name: desc.fields[0].Name, index: 0, value: v}, nil
	default:
		return nil, Errorf(ErrInvalidDescriptor, "unknown kind %v", desc.kind)
	}
}

// StaticSize returns the encoded length of the default value of desc. For
// shapes without unions, or whose unions have equally sized payloads, this is
// the length of every value of desc.
func (r *Registry) StaticSize(desc Descriptor) (int, error) {
	zero, err := r.Zero(desc)
	if err != nil {
		return 0, err
	}
	enc, err := r.Encode(zero, desc)
	if err != nil {
		return 0, fmt.Errorf("encode default value: %w", err)
	}
	return len(enc), nil
}

// MaxSize returns the largest encoded length any value of desc can have,
// taking the widest variant of every union.
func (r *Registry) MaxSize(desc Descriptor) (int, error) {
	if err := checkRoot(desc); err != nil {
		return 0, err
	}
	return r.sizeBound(desc, larger)
}

// MinSize returns the smallest encoded length any value of desc can have,
// taking the narrowest variant of every union.
func (r *Registry) MinSize(desc Descriptor) (int, error) {
	if err := checkRoot(desc); err != nil {
		return 0, err
	}
	return r.sizeBound(desc, smaller)
}

// sizeBound folds union variant sizes with pick (min or max).
func (r *Registry) sizeBound(desc Descriptor, pick func(a, b int) int) (int, error) {
	switch desc.kind {
	case KindRef:
		target, err := r.deref(desc)
		if err != nil {
			return 0, err
		}
		return r.sizeBound(target, pick)
	case KindPrimitive:
		return desc.width, nil
	case KindFixedBytes:
		return desc.length, nil
	case KindFixedArray:
		n, err := r.sizeBound(desc.Elem(), pick)
		if err != nil {
			return 0, err
		}
		if n > 0 && desc.length > math.MaxInt/n {
			return 0, Errorf(ErrInvalidDescriptor, "%s: size overflows int", desc)
		}
		return n * desc.length, nil
	case KindRecord:
		total := 0
		for _, f := range desc.fields {
			n, err := r.sizeBound(f.Type, pick)
			if err != nil {
				return 0, err
			}
			if total > math.MaxInt-n {
				return 0, Errorf(ErrInvalidDescriptor, "%s: size overflows int", desc)
			}
			total += n
		}
		return total, nil
	case KindUnion:
		bound := -1
		for _, f := range desc.fields {
			n, err := r.sizeBound(f.Type, pick)
			if err != nil {
				return 0, err
			}
			if bound < 0 {
				bound = n
			} else {
				bound = pick(bound, n)
			}
		}
		return 1 + max(bound, 0), nil
	default:
		return 0, Errorf(ErrInvalidDescriptor, "unknown kind %v", desc.kind)
	}
}

func larger(a, b int) int  { return max(a, b) }
func smaller(a, b int) int { return min(a, b) }
