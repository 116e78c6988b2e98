package hashcontainer

import (
	"unsafe"

	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

// Container owns one bucket table and one payload arena. Every type-level
// operation on it is single-type (Go has no variadic generics); the entity
// façade composes several of them to add or remove more than one component
// at a time.
type Container struct {
	buckets []slot
	size    int
	reg     *registry.Registry

	arena []byte
	used  int
	lost  int

	gen uint64
}

// Generation returns a counter bumped by every Insert and Remove. It backs
// Range's invalidation check; nothing else in the container depends on it.
func (c *Container) Generation() uint64 { return c.gen }

// Range visits every occupied slot in bucket order, calling fn with each
// slot's key and payload pointer. fn must not insert or remove from c: if
// it does, Range panics as soon as it notices the generation counter has
// moved, rather than silently skipping or revisiting a slot that
// backward-shift deletion relocated mid-scan.
func (c *Container) Range(fn func(key registry.Key, datum unsafe.Pointer)) {
	startGen := c.gen
	for _, s := range c.buckets {
		if s.key == emptyKey {
			continue
		}
		if c.gen != startGen {
			panic("hashcontainer: container mutated during Range")
		}
		fn(s.key, s.datum)
	}
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

// BucketCount reports the current bucket table size (always 0 or a power
// of two).
func (c *Container) BucketCount() int { return len(c.buckets) }

// LoadFactor reports size/bucketCount, 0 for an empty container.
func (c *Container) LoadFactor() float64 {
	if len(c.buckets) == 0 {
		return 0
	}
	return float64(c.size) / float64(len(c.buckets))
}

func (c *Container) mask() int {
	if len(c.buckets) == 0 {
		return 0
	}
	return len(c.buckets) - 1
}

// Has reports whether key is present.
func (c *Container) Has(key registry.Key) bool {
	_, ok := c.find(key)
	return ok
}

func (c *Container) find(key registry.Key) (int, bool) {
	if len(c.buckets) == 0 {
		return 0, false
	}
	mask := c.mask()
	idx := int(hashKey(key)) & mask
	for {
		if c.buckets[idx].key == key {
			return idx, true
		}
		if c.buckets[idx].key == emptyKey {
			return 0, false
		}
		idx = (idx + 1) & mask
	}
}

func (c *Container) canFitAnother() bool {
	return len(c.buckets) > 0 && (c.size+1)*2 <= len(c.buckets)
}

func (c *Container) arenaHasRoom(align, size int) bool {
	start := alignUp(c.used, align)
	return start+size <= len(c.arena)
}

func (c *Container) bumpAlloc(align, size int) unsafe.Pointer {
	start := alignUp(c.used, align)
	c.used = start + size
	return unsafe.Pointer(&c.arena[start])
}

// insertRaw places key into the bucket table, bump-allocating size bytes
// aligned to align for its payload, growing the table and/or arena first
// if either has no room (a hard rehash). The caller must already know key
// is absent.
func (c *Container) insertRaw(key registry.Key, desc *registry.Descriptor) unsafe.Pointer {
	size, align := int(desc.Size), int(desc.Align)
	if align == 0 {
		align = 1
	}
	if size == 0 {
		// A zero-sized component still needs one addressable byte of
		// scratch space in the arena.
		size = 1
	}
	if !c.canFitAnother() || !c.arenaHasRoom(align, size) {
		c.growAndRehash(size)
	}
	ptr := c.bumpAlloc(align, size)
	idx := placeInto(c.buckets, key)
	c.buckets[idx] = slot{key: key, desc: desc, datum: ptr}
	c.size++
	c.gen++
	return ptr
}

func (c *Container) growAndRehash(forSize int) {
	newBucketCount := nextPow2(len(c.buckets)*2 + 1)
	newArenaSize := c.used*2 + forSize
	if newArenaSize < forSize {
		newArenaSize = forSize
	}
	c.rehashInto(newBucketCount, newArenaSize)
}

// maybeCompact runs the soft rehash: once removed components have left
// more than a third of the arena unreclaimable, rebuild the arena at its
// post-removal size (same bucket count) so later inserts are not starved
// by fragmentation they cannot reuse.
func (c *Container) maybeCompact() {
	if len(c.arena) == 0 || c.lost*3 <= len(c.arena) {
		return
	}
	c.rehashInto(len(c.buckets), len(c.arena)-c.lost)
}

func (c *Container) rehashInto(newBucketCount, newArenaSize int) {
	if newArenaSize < 0 {
		newArenaSize = 0
	}
	newBuckets := make([]slot, newBucketCount)
	newArena := make([]byte, newArenaSize)
	newUsed := 0

	for _, s := range c.buckets {
		if s.key == emptyKey {
			continue
		}
		align, size := int(s.desc.Align), int(s.desc.Size)
		if align == 0 {
			align = 1
		}
		if size == 0 {
			size = 1
		}
		start := alignUp(newUsed, align)
		dst := unsafe.Pointer(&newArena[start])
		s.desc.Move(dst, s.datum)
		newUsed = start + size

		idx := placeInto(newBuckets, s.key)
		newBuckets[idx] = slot{key: s.key, desc: s.desc, datum: dst}
	}

	c.buckets = newBuckets
	c.arena = newArena
	c.used = newUsed
	c.lost = 0
}

// ReserveForMore grows the container ahead of time, if needed, so that
// count additional components totaling totalSize bytes can be inserted
// without a hard rehash landing mid-batch.
func (c *Container) ReserveForMore(count, totalSize int) {
	if count <= 0 {
		return
	}
	wantBuckets := len(c.buckets)
	for (c.size+count)*2 > wantBuckets {
		if wantBuckets == 0 {
			wantBuckets = 4
		} else {
			wantBuckets *= 2
		}
	}
	wantArena := c.used + totalSize
	if wantBuckets > len(c.buckets) || wantArena > len(c.arena) {
		c.rehashInto(nextPow2(wantBuckets), wantArena)
	}
}

func (c *Container) idealIndex(key registry.Key) int {
	return int(hashKey(key)) & c.mask()
}

// eraseNonPreserving removes the occupant of bucket via backward-shift
// deletion. It does not guarantee that an index greater than bucket still
// refers to the same logical element afterward, so it is only safe to use
// for a single targeted removal, not while iterating the table.
func (c *Container) eraseNonPreserving(bucket int) {
	backwardShift(c.buckets, bucket, c.idealIndex, false)
}

// erasePreserving behaves like eraseNonPreserving but stops shifting at the
// first slot whose index is less than bucket (where the probe wraps around),
// so a caller scanning the table in increasing index order never sees an
// element from the front of the table moved ahead of the scan and visited
// twice.
func (c *Container) erasePreserving(bucket int) {
	backwardShift(c.buckets, bucket, c.idealIndex, true)
}

// IsValid reports whether every occupied slot is reachable from its key's
// ideal bucket through an unbroken run of occupied slots, the invariant
// backward-shift deletion exists to preserve, and whether the table is at
// most half full.
func (c *Container) IsValid() bool {
	mask := c.mask()
	for idx, s := range c.buckets {
		if s.key == emptyKey {
			continue
		}
		ideal := int(hashKey(s.key)) & mask
		for j := ideal; j != idx; j = (j + 1) & mask {
			if c.buckets[j].key == emptyKey {
				return false
			}
		}
	}
	return len(c.buckets) == 0 || c.size*2 <= len(c.buckets)
}

// DestroyAll runs every stored component's destructor and empties the
// container.
func (c *Container) DestroyAll() {
	for i := range c.buckets {
		s := c.buckets[i]
		if s.key == emptyKey {
			continue
		}
		s.desc.Destroy(s.datum)
	}
	c.buckets = nil
	c.arena = nil
	c.used = 0
	c.lost = 0
	c.size = 0
}

// Insert adds value as T's component. It fails with ErrDuplicate if T is
// already present.
func Insert[T any](c *Container, value T) (*T, error) {
	key := registry.KeyFor[T](c.reg)
	if c.Has(key) {
		return nil, ErrDuplicate
	}
	desc, ok := c.reg.DescriptorFor(key)
	if !ok {
		panic("hashcontainer: descriptor missing for registered key")
	}
	ptr := c.insertRaw(key, desc)
	dst := (*T)(ptr)
	*dst = value
	return dst, nil
}

// Lookup returns a pointer to T's stored value, or (nil, false) if absent.
func Lookup[T any](c *Container) (*T, bool) {
	key := registry.KeyFor[T](c.reg)
	idx, ok := c.find(key)
	if !ok {
		return nil, false
	}
	return (*T)(c.buckets[idx].datum), true
}

// Remove deletes T's component, running its destructor. It reports
// whether T was present.
func Remove[T any](c *Container) bool {
	key := registry.KeyFor[T](c.reg)
	idx, ok := c.find(key)
	if !ok {
		return false
	}
	entry := c.buckets[idx]
	entry.desc.Destroy(entry.datum)
	c.lost += int(entry.desc.Size)
	c.eraseNonPreserving(idx)
	c.size--
	c.gen++
	c.maybeCompact()
	return true
}
