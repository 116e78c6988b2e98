// Package hashcontainer implements the second of the two interchangeable
// per-entity component containers: an open-addressed hash table keyed by
// registry.Key, using linear probing with backward-shift deletion so
// erase never leaves a tombstone behind.
//
// Component payloads live in one bump-allocated byte arena shared by every
// slot, grown in one of two ways: a hard rehash when the bucket table is
// at its load-factor ceiling or the arena has no room left for the next
// component, and a soft rehash (same bucket count, a freshly sized arena)
// when enough removed components have left the arena fragmented with
// unreclaimable "lost" bytes. The bucket table itself stays a typed Go
// slice, not raw bytes, so the garbage collector can see the *Descriptor
// and datum pointers each slot holds; only the component bytes themselves
// live in the untyped arena, which is why a type stored here must hold no
// Go pointers of its own — nothing would keep what they point to alive.
package hashcontainer

import (
	"unsafe"

	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

const emptyKey = registry.NoKey

type slot struct {
	key   registry.Key
	desc  *registry.Descriptor
	datum unsafe.Pointer
}

func hashKey(k registry.Key) uint64 {
	x := uint64(k)
	x = (x ^ (x >> 33)) * 0xff51afd7ed558ccd
	x = (x ^ (x >> 33)) * 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

func nextPow2(n int) int {
	p := 4
	for p < n {
		p <<= 1
	}
	return p
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// placeInto finds the slot key belongs in within buckets (which must have a
// power-of-two length and at least one empty slot) via linear probing.
func placeInto(buckets []slot, key registry.Key) int {
	mask := len(buckets) - 1
	idx := int(hashKey(key)) & mask
	for buckets[idx].key != emptyKey {
		idx = (idx + 1) & mask
	}
	return idx
}

func diff(bucketCount, a, b int) int {
	return (bucketCount + a - b) & (bucketCount - 1)
}

// backwardShift clears bucket and, for each subsequent occupied slot whose
// ideal index is closer to bucket than its current index, moves it back
// into bucket's place and continues from where it used to sit, stopping at
// the first empty slot. This is linear-probing deletion without
// tombstones: every probe chain stays unbroken.
//
// When preserveForward is true, the shift also stops at the first slot whose
// index is less than bucket (the probe has wrapped past the end of the
// table), so no element is pulled from the front of the table into a slot
// that a caller walking the table in increasing index order has not reached
// yet.
func backwardShift(buckets []slot, bucket int, ideal func(registry.Key) int, preserveForward bool) {
	mask := len(buckets) - 1
	idx := (bucket + 1) & mask
	for {
		if buckets[idx].key == emptyKey || (preserveForward && idx < bucket) {
			buckets[bucket] = slot{}
			return
		}
		id := ideal(buckets[idx].key)
		if diff(len(buckets), bucket, id) < diff(len(buckets), idx, id) {
			buckets[bucket] = buckets[idx]
			bucket = idx
		}
		idx = (idx + 1) & mask
	}
}
