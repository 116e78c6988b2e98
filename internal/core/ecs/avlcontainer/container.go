package avlcontainer

import (
	"unsafe"

	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

// Container owns an AVL tree keyed by registry.Key. Every operation on it
// is single-type (Go has no variadic generics); the entity façade composes
// several of them to add or remove more than one component at a time.
type Container struct {
	root *node
	reg  *registry.Registry
	size int
}

// New returns an empty container keyed against reg. A nil reg uses
// registry.Default.
func New(reg *registry.Registry) *Container {
	if reg == nil {
		reg = registry.Default
	}
	return &Container{reg: reg}
}

// Registry returns the registry this container resolves keys against.
func (c *Container) Registry() *registry.Registry { return c.reg }

// Len reports how many components the container currently holds.
func (c *Container) Len() int { return c.size }

// Has reports whether key is present.
func (c *Container) Has(key registry.Key) bool {
	return lookup(c.root, key) != nil
}

// IsAVL reports whether the height-balance invariant holds across the
// whole tree; exposed for tests, not needed in normal operation since
// every mutation maintains it.
func (c *Container) IsAVL() bool {
	return isAVL(c.root)
}

// Height returns the tree's height, 0 for an empty container.
func (c *Container) Height() int {
	return height(c.root)
}

// DestroyAll runs every stored component's destructor and empties the
// container. Called once, from the entity façade's teardown path, when the
// entity itself is destroyed: every component it holds must be destroyed
// exactly once.
func (c *Container) DestroyAll() {
	walk(c.root, func(n *node) {
		n.desc.Destroy(n.datum)
		n.source.decrement()
	})
	c.root = nil
	c.size = 0
}

// Insert adds value as a standalone component, backed by its own
// single-element SharedSource. It fails with ErrDuplicate if T is already
// present.
func Insert[T any](c *Container, value T) (*T, error) {
	return InsertShared[T](c, value, nil)
}

// InsertShared adds value, attaching it to shared instead of allocating a
// private source. Passing the same *SharedSource to several InsertShared
// calls for distinct types groups those components the way a bulk add
// does: they share one liveness refcount. A nil shared allocates a fresh
// one sized for a single component.
//
// Callers that need all-or-nothing semantics across several types must
// check Has for every type before calling InsertShared for any of them;
// this function itself only rejects the one type it is given.
func InsertShared[T any](c *Container, value T, shared *SharedSource) (*T, error) {
	key := registry.KeyFor[T](c.reg)
	if c.Has(key) {
		return nil, ErrDuplicate
	}
	desc, ok := c.reg.DescriptorFor(key)
	if !ok {
		panic("avlcontainer: descriptor missing for registered key")
	}

	if shared == nil {
		shared = NewSharedSource(1)
	}
	box := new(T)
	*box = value
	shared.boxes = append(shared.boxes, box)

	n := &node{key: key, desc: desc, datum: unsafe.Pointer(box), source: shared, height: 1}
	newRoot, rejected := insert(c.root, n)
	if rejected == n {
		// Has already checked above; only reachable under concurrent misuse.
		return nil, ErrDuplicate
	}
	c.root = newRoot
	c.size++
	return box, nil
}

// Lookup returns a pointer to T's stored value, or (nil, false) if absent.
func Lookup[T any](c *Container) (*T, bool) {
	key := registry.KeyFor[T](c.reg)
	n := lookup(c.root, key)
	if n == nil {
		return nil, false
	}
	return (*T)(n.datum), true
}

// Remove deletes T's component, running its destructor. It reports whether
// T was present.
func Remove[T any](c *Container) bool {
	key := registry.KeyFor[T](c.reg)
	newRoot, entry := remove(c.root, key)
	c.root = newRoot
	if entry == nil {
		return false
	}
	c.size--
	entry.Desc.Destroy(entry.Datum)
	entry.Source.decrement()
	return true
}
