package hashcontainer

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

type hA struct{ V int }
type hB struct{ V int }
type hC struct{ V int }

func newTestContainer() (*Container, *registry.Registry) {
	reg := registry.New()
	return New(reg), reg
}

func TestInsertLookupRemoveRoundTrip(t *testing.T) {
	c, _ := newTestContainer()

	got, err := Insert(c, hA{V: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, got.V)
	assert.Equal(t, 1, c.Len())

	found, ok := Lookup[hA](c)
	require.True(t, ok)
	assert.Equal(t, 1, found.V)

	assert.True(t, Remove[hA](c))
	assert.Equal(t, 0, c.Len())
	_, ok = Lookup[hA](c)
	assert.False(t, ok)
	assert.False(t, Remove[hA](c))
}

func TestInsertRejectsDuplicate(t *testing.T) {
	c, _ := newTestContainer()
	_, err := Insert(c, hA{V: 1})
	require.NoError(t, err)

	_, err = Insert(c, hA{V: 2})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, c.Len())
}

func TestMaxLoadFactorNeverExceedsOneHalf(t *testing.T) {
	c, _ := newTestContainer()
	for i := 0; i < 50; i++ {
		var err error
		switch i % 3 {
		case 0:
			_, err = Insert(c, hA{})
		case 1:
			_, err = Insert(c, hB{})
		case 2:
			_, err = Insert(c, hC{})
		}
		if err == nil {
			assert.LessOrEqual(t, c.size*2, c.BucketCount())
		}
	}
}

func TestBucketCountStaysPowerOfTwo(t *testing.T) {
	c, _ := newTestContainer()
	_, _ = Insert(c, hA{})
	_, _ = Insert(c, hB{})
	_, _ = Insert(c, hC{})
	n := c.BucketCount()
	assert.Greater(t, n, 0)
	assert.Equal(t, 0, n&(n-1), "bucket count must be a power of two")
}

// Scenario: with bucket count 8, keys 5, 13, and 21 share ideal bucket 5
// (the test supplies an ideal-index function that returns 5 for every key)
// and occupy slots 5, 6, 7 via linear probing. Erasing the one at bucket 5 must leave the remaining two
// reachable by probing starting at 5: backward-shift deletion closes the
// gap instead of leaving a tombstone that would break the chain.
func TestBackwardShiftPreservesProbeChainOnCollision(t *testing.T) {
	buckets := make([]slot, 8)
	buckets[5] = slot{key: registry.Key(5)}
	buckets[6] = slot{key: registry.Key(13)}
	buckets[7] = slot{key: registry.Key(21)}

	identicalIdeal := func(registry.Key) int { return 5 }

	backwardShift(buckets, 5, identicalIdeal, false)

	// Slot 5 must now hold one of the two survivors (moved back from 6),
	// slot 6 must hold the other (moved back from 7), and slot 7 must be
	// the one left empty — never a gap at index 5 itself.
	assert.Equal(t, registry.Key(13), buckets[5].key)
	assert.Equal(t, registry.Key(21), buckets[6].key)
	assert.Equal(t, emptyKey, buckets[7].key)
}

func TestErasePreservingStopsAtWraparound(t *testing.T) {
	// A preserving erase must not pull an element back past an index the
	// caller has already visited (idx < bucket signals wraparound).
	buckets := make([]slot, 8)
	buckets[6] = slot{key: registry.Key(6)}
	buckets[7] = slot{key: registry.Key(7)}
	buckets[0] = slot{key: registry.Key(16)} // wrapped around, ideal 0

	ideal := func(k registry.Key) int { return int(k) % 8 }
	backwardShift(buckets, 6, ideal, true)

	assert.Equal(t, emptyKey, buckets[6].key)
	assert.Equal(t, registry.Key(7), buckets[7].key)
}

func TestHardRehashGrowsBucketTableAndArena(t *testing.T) {
	c, _ := newTestContainer()
	type big struct{ payload [64]byte }

	_, err := Insert(c, big{})
	require.NoError(t, err)
	assert.True(t, c.IsValid())
	assert.GreaterOrEqual(t, len(c.arena), 64)
}

func TestSoftRehashReclaimsLostBytesAfterRemovals(t *testing.T) {
	c, _ := newTestContainer()
	_, err := Insert(c, hA{})
	require.NoError(t, err)
	_, err = Insert(c, hB{})
	require.NoError(t, err)
	_, err = Insert(c, hC{})
	require.NoError(t, err)

	require.True(t, Remove[hA](c))
	require.True(t, Remove[hB](c))

	assert.True(t, c.IsValid())
	assert.LessOrEqual(t, c.lost, len(c.arena))
}

func TestIsValidHoldsUnderRandomInsertRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c, reg := newTestContainer()
	type kt0 struct{ V int }
	type kt1 struct{ V int }
	type kt2 struct{ V int }
	type kt3 struct{ V int }
	keys := []registry.Key{
		registry.KeyFor[kt0](reg),
		registry.KeyFor[kt1](reg),
		registry.KeyFor[kt2](reg),
		registry.KeyFor[kt3](reg),
	}
	present := map[registry.Key]bool{}

	for i := 0; i < 200; i++ {
		k := keys[rng.Intn(len(keys))]
		if !present[k] {
			switch k {
			case keys[0]:
				_, _ = Insert(c, kt0{})
			case keys[1]:
				_, _ = Insert(c, kt1{})
			case keys[2]:
				_, _ = Insert(c, kt2{})
			case keys[3]:
				_, _ = Insert(c, kt3{})
			}
			present[k] = true
		} else {
			switch k {
			case keys[0]:
				Remove[kt0](c)
			case keys[1]:
				Remove[kt1](c)
			case keys[2]:
				Remove[kt2](c)
			case keys[3]:
				Remove[kt3](c)
			}
			present[k] = false
		}
		require.True(t, c.IsValid(), "hash invariant violated at step %d", i)
	}
}

func TestRangeVisitsEveryOccupiedSlot(t *testing.T) {
	c, _ := newTestContainer()
	_, _ = Insert(c, hA{V: 1})
	_, _ = Insert(c, hB{V: 2})

	seen := 0
	c.Range(func(key registry.Key, datum unsafe.Pointer) { seen++ })
	assert.Equal(t, 2, seen)
}

func TestRangePanicsIfContainerMutatedMidScan(t *testing.T) {
	c, _ := newTestContainer()
	_, _ = Insert(c, hA{V: 1})
	_, _ = Insert(c, hB{V: 2})
	_, _ = Insert(c, hC{V: 3})

	removed := false
	assert.Panics(t, func() {
		c.Range(func(key registry.Key, datum unsafe.Pointer) {
			if !removed {
				removed = true
				Remove[hA](c)
			}
		})
	})
}

func TestReserveForMoreAvoidsMidBatchRehash(t *testing.T) {
	c, _ := newTestContainer()
	c.ReserveForMore(3, 3*int(unsafe.Sizeof(hA{})))
	bucketsBefore := c.BucketCount()
	arenaBefore := len(c.arena)

	_, err := Insert(c, hA{})
	require.NoError(t, err)
	_, err = Insert(c, hB{})
	require.NoError(t, err)
	_, err = Insert(c, hC{})
	require.NoError(t, err)

	assert.Equal(t, bucketsBefore, c.BucketCount())
	assert.Equal(t, arenaBefore, len(c.arena))
}
