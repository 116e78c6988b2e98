package avlcontainer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

type tA struct{ V int }
type tB struct{ V int }
type tC struct{ V int }

func newTestContainer() (*Container, *registry.Registry) {
	reg := registry.New()
	return New(reg), reg
}

func TestInsertLookupRemoveRoundTrip(t *testing.T) {
	c, _ := newTestContainer()

	got, err := Insert(c, tA{V: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, got.V)
	assert.Equal(t, 1, c.Len())

	found, ok := Lookup[tA](c)
	require.True(t, ok)
	assert.Equal(t, 1, found.V)

	assert.True(t, Remove[tA](c))
	assert.Equal(t, 0, c.Len())
	_, ok = Lookup[tA](c)
	assert.False(t, ok)
	assert.False(t, Remove[tA](c))
}

func TestInsertRejectsDuplicate(t *testing.T) {
	c, _ := newTestContainer()
	_, err := Insert(c, tA{V: 1})
	require.NoError(t, err)

	_, err = Insert(c, tA{V: 2})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, c.Len())

	got, _ := Lookup[tA](c)
	assert.Equal(t, 1, got.V, "the rejected insert must not overwrite the existing value")
}

func TestInsertSharedGroupsLivenessAcrossTypes(t *testing.T) {
	c, _ := newTestContainer()
	shared := NewSharedSource(2)

	_, err := InsertShared(c, tA{V: 1}, shared)
	require.NoError(t, err)
	_, err = InsertShared(c, tB{V: 2}, shared)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, shared.remaining)

	require.True(t, Remove[tA](c))
	assert.Equal(t, 1, shared.remaining)
	require.True(t, Remove[tB](c))
	assert.Equal(t, 0, shared.remaining)
}

func TestLRRotationBalancesInsertOrder(t *testing.T) {
	// Inserting keys 3, 1, 2 (an LR case) must leave the tree rooted at 2,
	// with 1 and 3 as its children, and the AVL invariant holding
	// throughout.
	c, _ := newTestContainer()
	three := &node{key: registry.Key(3), height: 1}
	one := &node{key: registry.Key(1), height: 1}
	two := &node{key: registry.Key(2), height: 1}

	var root *node
	root, _ = insert(root, three)
	root, _ = insert(root, one)
	root, _ = insert(root, two)

	require.Equal(t, registry.Key(2), root.key)
	require.NotNil(t, root.left)
	require.NotNil(t, root.right)
	assert.Equal(t, registry.Key(1), root.left.key)
	assert.Equal(t, registry.Key(3), root.right.key)
	assert.True(t, isAVL(root))

	c.root = root
	c.size = 3
	assert.True(t, c.IsAVL())
}

func TestAVLInvariantHoldsUnderRandomInsertRemove(t *testing.T) {
	// After any sequence of inserts and removes, the tree stays
	// height-balanced to within one level at every node.
	rng := rand.New(rand.NewSource(1))
	var root *node
	present := map[registry.Key]bool{}

	for i := 0; i < 500; i++ {
		k := registry.Key(rng.Intn(64) + 1)
		if rng.Intn(2) == 0 || !present[k] {
			if !present[k] {
				root, _ = insert(root, &node{key: k, height: 1})
				present[k] = true
			}
		} else {
			root, _ = remove(root, k)
			present[k] = false
		}
		require.True(t, isAVL(root), "AVL invariant violated at step %d", i)
	}
}

func TestRemoveTwoChildNodeKeepsSiblingsReachable(t *testing.T) {
	c, _ := newTestContainer()
	_, err := Insert(c, tA{V: 1})
	require.NoError(t, err)
	_, err = Insert(c, tB{V: 2})
	require.NoError(t, err)
	_, err = Insert(c, tC{V: 3})
	require.NoError(t, err)

	// Keys are assigned in first-use order (tA, tB, tC), so the balanced
	// tree is rooted at tB with tA and tC as its two children.
	assert.True(t, Remove[tB](c))
	assert.Equal(t, 2, c.Len())
	_, ok := Lookup[tA](c)
	assert.True(t, ok)
	_, ok = Lookup[tC](c)
	assert.True(t, ok)
	assert.True(t, c.IsAVL())
}

type destroyCounter struct{ n *int }

func (d destroyCounter) Destroy() { *d.n++ }

func TestDestroyAllRunsEveryDestructorOnce(t *testing.T) {
	reg := registry.New()
	c := New(reg)

	var aCount int
	_, err := Insert(c, destroyCounter{n: &aCount})
	require.NoError(t, err)
	_, err = Insert(c, tB{V: 1})
	require.NoError(t, err)

	c.DestroyAll()
	assert.Equal(t, 1, aCount)
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.root)
}
