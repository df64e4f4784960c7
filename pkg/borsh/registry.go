package borsh

import (
	"fmt"
	"sort"
)

// Builder collects type registrations during initialization. It is not safe
// for concurrent use; build the registry once, then share the Registry.
type Builder struct {
	types map[string]Descriptor
	order []string
}

// NewBuilder creates an empty registration builder.
func NewBuilder() *Builder {
	return &Builder{types: make(map[string]Descriptor)}
}

// Register validates desc and records it under id.
func (b *Builder) Register(id string, desc Descriptor) error {
	if id == "" {
		return Errorf(ErrInvalidDescriptor, "type id cannot be empty")
	}
	if _, exists := b.types[id]; exists {
		return Errorf(ErrInvalidDescriptor, "type %q already registered", id)
	}
	if err := desc.validate(id); err != nil {
		return err
	}
	b.types[id] = desc
	b.order = append(b.order, id)
	return nil
}

// RegisterAll registers several types, stopping at the first failure.
func (b *Builder) RegisterAll(types map[string]Descriptor) error {
	ids := make([]string, 0, len(types))
	for id := range types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := b.Register(id, types[id]); err != nil {
			return err
		}
	}
	return nil
}

// Build checks that every reference resolves and that references are
// acyclic, then returns the frozen registry. The builder can be discarded.
func (b *Builder) Build() (*Registry, error) {
	types := make(map[string]Descriptor, len(b.types))
	for id, d := range b.types {
		types[id] = d
	}
	reg := &Registry{types: types, order: append([]string(nil), b.order...)}

	state := make(map[string]int, len(types)) // 0 unvisited, 1 in progress, 2 done
	for _, id := range reg.order {
		if err := reg.checkRefs(id, types[id], state); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// MustBuild is Build for statically known schemas; it panics on failure.
func (b *Builder) MustBuild() *Registry {
	reg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("borsh: schema build failed: %v", err))
	}
	return reg
}

// Registry is an immutable mapping from type identifier to Descriptor. It
// carries the encode/decode entry points. A Registry is safe for concurrent
// use without locking.
type Registry struct {
	types map[string]Descriptor
	order []string
}

// Resolve returns the descriptor registered under id.
func (r *Registry) Resolve(id string) (Descriptor, error) {
	d, ok := r.types[id]
	if !ok {
		return Descriptor{}, Errorf(ErrUnknownType, "%q", id)
	}
	return d, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.types[id]
	return ok
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	return len(r.types)
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// deref follows Ref descriptors until a concrete shape is reached.
func (r *Registry) deref(d Descriptor) (Descriptor, error) {
	for d.kind == KindRef {
		next, ok := r.types[d.ref]
		if !ok {
			return Descriptor{}, Errorf(ErrUnknownType, "%q", d.ref)
		}
		d = next
	}
	return d, nil
}

func (r *Registry) checkRefs(id string, d Descriptor, state map[string]int) error {
	switch state[id] {
	case 1:
		return Errorf(ErrInvalidDescriptor, "type %q is recursive", id)
	case 2:
		return nil
	}
	state[id] = 1
	if err := r.walkRefs(d, state); err != nil {
		return err
	}
	state[id] = 2
	return nil
}

func (r *Registry) walkRefs(d Descriptor, state map[string]int) error {
	switch d.kind {
	case KindRef:
		target, ok := r.types[d.ref]
		if !ok {
			return Errorf(ErrUnknownType, "%q", d.ref)
		}
		return r.checkRefs(d.ref, target, state)
	case KindFixedArray:
		return r.walkRefs(d.Elem(), state)
	case KindRecord, KindUnion:
		for _, f := range d.fields {
			if err := r.walkRefs(f.Type, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkRoot validates the descriptor handed to a public entry point.
// Registered types behind a Ref were validated at registration, so for them
// this only checks the reference itself.
func checkRoot(d Descriptor) error {
	return d.validate(rootPath(d))
}

func rootPath(d Descriptor) string {
	if p := pathOf(d); p != "" {
		return p
	}
	return "<value>"
}

// Validate checks an ad-hoc descriptor against the same rules the builder
// applies at registration, including reference resolution. Callers that
// build descriptors outside the registry run it once up front.
func (r *Registry) Validate(d Descriptor) error {
	if err := d.validate("<value>"); err != nil {
		return err
	}
	return r.walkRefs(d, make(map[string]int))
}
