package rbtree

import (
	"cmp"
	"math"
)

// Tree is a red-black tree that accepts duplicate keys.
//
// This implementation is not safe for concurrent use by multiple goroutines.
// Lookups update the comparison counter, so every access, reads included, must
// be serialized by the caller.
type Tree[K any] struct {
	root    *Node[K]
	nil     *Node[K] // sentinel (black)
	compare func(a, b K) int
	size    int

	recentCompares int
}

// New constructs an empty tree ordered by cmp.Compare.
func New[K cmp.Ordered]() *Tree[K] {
	return NewFunc(cmp.Compare[K])
}

// NewFunc constructs an empty tree ordered by compare, which must return a
// negative number when a < b, zero when a == b and a positive number otherwise.
func NewFunc[K any](compare func(a, b K) int) *Tree[K] {
	nilNode := &Node[K]{color: Black}
	return &Tree[K]{
		root:    nilNode,
		nil:     nilNode,
		compare: compare,
	}
}

// Size returns the number of keys inserted, duplicates included.
func (t *Tree[K]) Size() int { return t.size }

// Insert adds key to the tree. Equal keys are kept and placed to the right of
// the first equal node met on the way down.
func (t *Tree[K]) Insert(key K) {
	z := &Node[K]{
		key:   key,
		color: Red,
		left:  t.nil,
		right: t.nil,
	}

	y := t.nil
	x := t.root
	for x != t.nil {
		y = x
		if t.compare(x.key, key) > 0 {
			x = x.left
		} else {
			x = x.right
		}
	}

	z.parent = y
	if y == t.nil {
		t.root = z
	} else if t.compare(y.key, key) > 0 {
		y.left = z
	} else {
		y.right = z
	}
	t.size++
	t.insertFixup(z)
}

// HeightBound is the red-black upper bound 2*log2(n+1) on the height of a tree
// holding n keys.
func HeightBound(n int) float64 {
	return 2 * math.Log2(float64(n)+1)
}
