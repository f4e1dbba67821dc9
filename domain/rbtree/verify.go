package rbtree

import (
	"errors"
	"fmt"
)

var (
	ErrInvariant      = errors.New("rbtree: invariant violated")
	ErrQueueUnderflow = errors.New("rbtree: queue reported items but dequeue failed")
)

// Verify checks the red-black and search tree properties and that Size matches
// the number of reachable nodes.
func (t *Tree[K]) Verify() error {
	if t.nil.color != Black {
		return fmt.Errorf("%w: sentinel is red", ErrInvariant)
	}
	if t.root.color != Black {
		return fmt.Errorf("%w: root %v is red", ErrInvariant, t.root.key)
	}
	if t.root != t.nil && t.root.parent != t.nil {
		return fmt.Errorf("%w: root %v has a parent", ErrInvariant, t.root.key)
	}
	count, _, err := t.verify(t.root)
	if err != nil {
		return err
	}
	if count != t.size {
		return fmt.Errorf("%w: size is %d but %d nodes are reachable", ErrInvariant, t.size, count)
	}
	var prev *K
	for k := range t.InOrder() {
		if prev != nil && t.compare(*prev, k) > 0 {
			return fmt.Errorf("%w: in order walk yields %v before %v", ErrInvariant, *prev, k)
		}
		prev = &k
	}
	return nil
}

// verify returns the node count and black height of the subtree at n.
func (t *Tree[K]) verify(n *Node[K]) (count, blackHeight int, err error) {
	if n == t.nil {
		return 0, 0, nil
	}
	if n.left != t.nil {
		if n.left.parent != n {
			return 0, 0, fmt.Errorf("%w: left child of %v does not link back", ErrInvariant, n.key)
		}
		// inserts send equal keys right, but a rotation may lift one above its twin
		if t.compare(n.left.key, n.key) > 0 {
			return 0, 0, fmt.Errorf("%w: left child %v greater than %v", ErrInvariant, n.left.key, n.key)
		}
	}
	if n.right != t.nil {
		if n.right.parent != n {
			return 0, 0, fmt.Errorf("%w: right child of %v does not link back", ErrInvariant, n.key)
		}
		if t.compare(n.right.key, n.key) < 0 {
			return 0, 0, fmt.Errorf("%w: right child %v less than %v", ErrInvariant, n.right.key, n.key)
		}
	}
	if n.color == Red && (n.left.color == Red || n.right.color == Red) {
		return 0, 0, fmt.Errorf("%w: red node %v has a red child", ErrInvariant, n.key)
	}

	lc, lbh, err := t.verify(n.left)
	if err != nil {
		return 0, 0, err
	}
	rc, rbh, err := t.verify(n.right)
	if err != nil {
		return 0, 0, err
	}
	if lbh != rbh {
		return 0, 0, fmt.Errorf("%w: black height %d on the left of %v, %d on the right", ErrInvariant, lbh, n.key, rbh)
	}
	if n.color == Black {
		lbh++
	}
	return lc + rc + 1, lbh, nil
}
