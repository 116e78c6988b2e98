// Package avlcontainer implements one of the two interchangeable
// per-entity component containers: a binary search tree keyed by
// registry.Key, height-balanced to within one level (an AVL tree), so
// lookup, insert, and remove all run in O(log n) regardless of insertion
// order.
//
// A node's payload is reached only through a *registry.Descriptor, never
// through a concrete Go type — the tree itself never learns what it is
// storing. Several components added together through InsertShared share
// one SharedSource, so their combined liveness is tracked with a single
// refcount instead of one per component, mirroring the "single allocation
// for several sibling components" shape used for bulk construction.
package avlcontainer

import (
	"unsafe"

	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

type node struct {
	key    registry.Key
	desc   *registry.Descriptor
	datum  unsafe.Pointer
	source *SharedSource

	left, right *node
	height      int8
}

// SharedSource backs one or more sibling nodes constructed in the same
// bulk-add call. Each component built against it holds a reference into
// source.boxes, which keeps the component's backing allocation alive for as
// long as any sibling node still references it; decrement is called once
// per node as that node is destroyed, and the source itself becomes
// garbage once the last node referencing it does.
type SharedSource struct {
	remaining int
	boxes     []any
}

// NewSharedSource allocates a source sized for n sibling components.
func NewSharedSource(n int) *SharedSource {
	return &SharedSource{remaining: n, boxes: make([]any, 0, n)}
}

func (s *SharedSource) decrement() {
	s.remaining--
}

// Entry reports the descriptor, payload, and source of a node removed from
// the tree, so the caller can run the type's destructor and release the
// shared source exactly once.
type Entry struct {
	Key    registry.Key
	Desc   *registry.Descriptor
	Datum  unsafe.Pointer
	Source *SharedSource
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return int(n.height)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func updateHeight(n *node) {
	n.height = int8(1 + max(height(n.left), height(n.right)))
}

func balanceFactor(n *node) int {
	if n == nil {
		return 0
	}
	return height(n.left) - height(n.right)
}

// rotateRight and rotateLeft are the tree's only two structural moves;
// rebalance composes them into the LR and RL cases.
func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	updateHeight(y)
	updateHeight(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	updateHeight(x)
	updateHeight(y)
	return y
}

func rebalance(n *node) *node {
	updateHeight(n)
	bf := balanceFactor(n)
	if bf > 1 {
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}
	if bf < -1 {
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

// insert returns the new subtree root. If newNode's key is already present,
// the tree is returned unchanged and rejected is newNode itself, so the
// caller can tell its insert apart from a successful one.
func insert(root, newNode *node) (_, rejected *node) {
	if root == nil {
		return newNode, nil
	}
	switch {
	case newNode.key < root.key:
		root.left, rejected = insert(root.left, newNode)
	case newNode.key > root.key:
		root.right, rejected = insert(root.right, newNode)
	default:
		return root, newNode
	}
	if rejected != nil {
		return root, rejected
	}
	return rebalance(root), nil
}

func minNode(n *node) *node {
	for n.left != nil {
		n = n.left
	}
	return n
}

// remove deletes key from the tree rooted at root, returning the new root
// and an Entry describing what was removed (nil if key was absent). A
// two-child node is removed by copying its in-order successor's content up
// into it and then deleting the successor from the right subtree, rather
// than relinking pointers.
func remove(root *node, key registry.Key) (*node, *Entry) {
	if root == nil {
		return nil, nil
	}

	var removed *Entry
	if key < root.key {
		root.left, removed = remove(root.left, key)
	} else if key > root.key {
		root.right, removed = remove(root.right, key)
	} else {
		removed = &Entry{Key: root.key, Desc: root.desc, Datum: root.datum, Source: root.source}
		switch {
		case root.left == nil:
			return root.right, removed
		case root.right == nil:
			return root.left, removed
		default:
			succ := minNode(root.right)
			root.key, root.desc, root.datum, root.source = succ.key, succ.desc, succ.datum, succ.source
			root.right, _ = remove(root.right, succ.key)
		}
	}
	return rebalance(root), removed
}

func lookup(n *node, key registry.Key) *node {
	for n != nil {
		switch {
		case key < n.key:
			n = n.left
		case key > n.key:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

func isAVL(n *node) bool {
	if n == nil {
		return true
	}
	bf := balanceFactor(n)
	if bf > 1 || bf < -1 {
		return false
	}
	return isAVL(n.left) && isAVL(n.right)
}

func walk(n *node, visit func(*node)) {
	if n == nil {
		return
	}
	walk(n.left, visit)
	visit(n)
	walk(n.right, visit)
}
