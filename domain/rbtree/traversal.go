package rbtree

import (
	"fmt"
	"iter"

	"lexicon/infra/queue"
)

// Queue is the FIFO used by level order traversal. Enqueue must fail without
// changing the queue when it is full; Dequeue reports false when empty.
type Queue[T any] interface {
	Enqueue(v T) error
	Dequeue() (T, bool)
	IsEmpty() bool
}

// InOrder yields keys in ascending order. Equal keys come out in insertion
// order.
func (t *Tree[K]) InOrder() iter.Seq[K] {
	return func(yield func(K) bool) {
		for n := t.minNode(t.root); n != t.nil; n = t.next(n) {
			if !yield(n.key) {
				return
			}
		}
	}
}

// LevelOrder yields keys breadth first, left to right within a level.
func (t *Tree[K]) LevelOrder() iter.Seq[K] {
	return func(yield func(K) bool) {
		// the ring is sized for the widest possible level, Enqueue cannot fail
		_ = t.walkLevelOrder(t.levelQueue(), func(n *Node[K]) bool {
			return yield(n.key)
		})
	}
}

// Levels is LevelOrder yielding a description of every node.
func (t *Tree[K]) Levels() iter.Seq[NodeInfo[K]] {
	return func(yield func(NodeInfo[K]) bool) {
		_ = t.walkLevelOrder(t.levelQueue(), func(n *Node[K]) bool {
			return yield(t.info(n))
		})
	}
}

// PreOrder yields every node with its depth, parents before children and left
// subtrees before right ones.
func (t *Tree[K]) PreOrder() iter.Seq2[int, NodeInfo[K]] {
	return func(yield func(int, NodeInfo[K]) bool) {
		t.preOrder(t.root, 0, yield)
	}
}

func (t *Tree[K]) preOrder(n *Node[K], depth int, yield func(int, NodeInfo[K]) bool) bool {
	if n == t.nil {
		return true
	}
	return yield(depth, t.info(n)) &&
		t.preOrder(n.left, depth+1, yield) &&
		t.preOrder(n.right, depth+1, yield)
}

// WalkLevelOrder runs a breadth first traversal using the caller's queue and
// stops early when fn returns false. Queue overflow and underflow are reported
// as errors; nodes visited before the failure have already been passed to fn.
func (t *Tree[K]) WalkLevelOrder(q Queue[*Node[K]], fn func(NodeInfo[K]) bool) error {
	return t.walkLevelOrder(q, func(n *Node[K]) bool {
		return fn(t.info(n))
	})
}

func (t *Tree[K]) walkLevelOrder(q Queue[*Node[K]], fn func(*Node[K]) bool) error {
	if t.root == t.nil {
		return nil
	}
	if err := q.Enqueue(t.root); err != nil {
		return fmt.Errorf("rbtree: enqueue root: %w", err)
	}
	for !q.IsEmpty() {
		n, ok := q.Dequeue()
		if !ok {
			return ErrQueueUnderflow
		}
		if !fn(n) {
			return nil
		}
		if n.left != t.nil {
			if err := q.Enqueue(n.left); err != nil {
				return fmt.Errorf("rbtree: enqueue left child of %v: %w", n.key, err)
			}
		}
		if n.right != t.nil {
			if err := q.Enqueue(n.right); err != nil {
				return fmt.Errorf("rbtree: enqueue right child of %v: %w", n.key, err)
			}
		}
	}
	return nil
}

// levelQueue allocates a ring holding ceil(n/2)+1 nodes. The queue only ever
// holds nodes none of which is an ancestor of another, and a binary tree of n
// nodes has at most ceil(n/2) such nodes.
func (t *Tree[K]) levelQueue() *queue.Ring[*Node[K]] {
	return queue.NewRing[*Node[K]]((t.size+1)/2 + 1)
}

func (t *Tree[K]) minNode(n *Node[K]) *Node[K] {
	if n == t.nil {
		return t.nil
	}
	for n.left != t.nil {
		n = n.left
	}
	return n
}

func (t *Tree[K]) next(n *Node[K]) *Node[K] {
	if n.right != t.nil {
		return t.minNode(n.right)
	}
	p := n.parent
	for p != t.nil && n == p.right {
		n = p
		p = p.parent
	}
	return p
}
