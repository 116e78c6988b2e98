// Package entity implements the entity façade: a value wrapping a strong
// handle to a body, plus the weak, type-checked references that can be
// promoted back to it. Everything here delegates to the registry and to
// whichever of the two component containers (avlcontainer, hashcontainer)
// the body was constructed with.
package entity

import (
	"github.com/ariaforge/ecsforge/internal/core/ecs/avlcontainer"
	"github.com/ariaforge/ecsforge/internal/core/ecs/hashcontainer"
	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

// Kind identifies which concrete container a body stores its components in.
// It doubles as the safety tag an EntityRef checks before promoting to a
// typed entity: two bodies of different Kind are never interchangeable,
// even though both satisfy the same façade API.
type Kind uint8

const (
	kindAvl Kind = iota + 1
	kindHash
)

func (k Kind) String() string {
	switch k {
	case kindAvl:
		return "Avl"
	case kindHash:
		return "Hash"
	default:
		return "Unknown"
	}
}

// Tag selects a body's concrete storage kind at the type level: Avl or
// Hash, used as the type parameter on Facade, Ref, and every fixed-arity
// operation. Go has no variadic or value generics, so a two-member closed
// set of marker types stands in for the source's per-body-type safety tag.
type Tag interface {
	kind() Kind
}

// Avl selects the AVL-tree container backend.
type Avl struct{}

func (Avl) kind() Kind { return kindAvl }

// Hash selects the open-addressed hash table container backend.
type Hash struct{}

func (Hash) kind() Kind { return kindHash }

// Body is the shared payload behind every strong/weak handle to one entity:
// exactly one component container, an optional back-reference to whatever
// scene owns the entity, and the deletion-request flag a scene polls.
type Body struct {
	kind Kind
	avl  *avlcontainer.Container
	hash *hashcontainer.Container
	reg  *registry.Registry

	scene             any
	deletionRequested bool
}

func newBody(k Kind, reg *registry.Registry) Body {
	if reg == nil {
		reg = registry.Default
	}
	b := Body{kind: k, reg: reg}
	switch k {
	case kindAvl:
		b.avl = avlcontainer.New(reg)
	case kindHash:
		b.hash = hashcontainer.New(reg)
	}
	return b
}

func destroyBody(b *Body) {
	switch b.kind {
	case kindAvl:
		b.avl.DestroyAll()
	case kindHash:
		b.hash.DestroyAll()
	}
}

func (b *Body) has(key registry.Key) bool {
	switch b.kind {
	case kindAvl:
		return b.avl.Has(key)
	case kindHash:
		return b.hash.Has(key)
	}
	return false
}

// addOne constructs T on b. shared is only meaningful for an Avl-kind body:
// passing the same *avlcontainer.SharedSource across several addOne calls
// packs those components into one multi-node, the way a single bulk-add
// call is expected to. A nil shared (the single-Add1 path) gives T its own
// private source, same as calling avlcontainer.Insert directly.
func addOne[T any](b *Body, shared *avlcontainer.SharedSource) (*T, error) {
	switch b.kind {
	case kindAvl:
		v, err := avlcontainer.InsertShared[T](b.avl, *new(T), shared)
		return v, translateContainerErr(err)
	case kindHash:
		v, err := hashcontainer.Insert[T](b.hash, *new(T))
		return v, translateContainerErr(err)
	}
	panic("entity: body has no storage kind")
}

// packAvl returns a SharedSource sized for n sibling components when b is
// Avl-kind, so a multi-type Add call groups them into one multi-node
// instead of n independently-refcounted ones. It returns nil for a
// Hash-kind body, where addOne ignores the shared argument entirely.
func (b *Body) packAvl(n int) *avlcontainer.SharedSource {
	if b.kind != kindAvl {
		return nil
	}
	return avlcontainer.NewSharedSource(n)
}

// reserveHash pre-reserves room for the components keyed by keys when b is
// Hash-kind, so the Insert calls that follow for a multi-type Add cannot
// trigger a hard rehash partway through the pack. It is a no-op for an
// Avl-kind body.
func (b *Body) reserveHash(keys ...registry.Key) {
	if b.kind != kindHash {
		return
	}
	total := 0
	for _, k := range keys {
		desc, ok := b.reg.DescriptorFor(k)
		if !ok {
			continue
		}
		size := int(desc.Size)
		if size == 0 {
			size = 1
		}
		total += size + int(desc.Align)
	}
	b.hash.ReserveForMore(len(keys), total)
}

func lookupOne[T any](b *Body) (*T, bool) {
	switch b.kind {
	case kindAvl:
		return avlcontainer.Lookup[T](b.avl)
	case kindHash:
		return hashcontainer.Lookup[T](b.hash)
	}
	return nil, false
}

func removeOne[T any](b *Body) bool {
	switch b.kind {
	case kindAvl:
		return avlcontainer.Remove[T](b.avl)
	case kindHash:
		return hashcontainer.Remove[T](b.hash)
	}
	return false
}

func translateContainerErr(err error) error {
	if err == nil {
		return nil
	}
	// Both containers' Insert fail only with their own ErrDuplicate; the
	// façade always re-checks presence before calling Insert, so this path
	// is defensive rather than load-bearing.
	return ErrDuplicate
}
