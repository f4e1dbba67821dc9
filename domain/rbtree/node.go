package rbtree

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	Red   Color = 0
	Black Color = 1
)

func (c Color) String() string {
	if c == Black {
		return "Black"
	}
	return "Red"
}

// Node is a tree vertex. Its links are owned by the Tree; callers only ever see
// a node through the read-only accessors.
type Node[K any] struct {
	key    K
	color  Color
	parent *Node[K]
	left   *Node[K]
	right  *Node[K]
}

func (n *Node[K]) Key() K       { return n.key }
func (n *Node[K]) Color() Color { return n.color }

// NodeInfo is a detached description of a node. Parent, Left and Right are nil
// where the link points at the sentinel. OnLeft is set when the node hangs off
// its parent's left link.
type NodeInfo[K any] struct {
	Key    K
	Color  Color
	Parent *K
	Left   *K
	Right  *K
	OnLeft bool
}

func (ni NodeInfo[K]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Data: %v, Color: %s, Parent: %s, Left Child: %s, Right Child: %s]",
		ni.Key, ni.Color, keyOrDash(ni.Parent), keyOrDash(ni.Left), keyOrDash(ni.Right))
	return b.String()
}

func keyOrDash[K any](k *K) string {
	if k == nil {
		return "-"
	}
	return fmt.Sprint(*k)
}

// info snapshots n; identity checks against the sentinel decide which links are
// reported.
func (t *Tree[K]) info(n *Node[K]) NodeInfo[K] {
	ni := NodeInfo[K]{Key: n.key, Color: n.color}
	if n.parent != t.nil {
		k := n.parent.key
		ni.Parent = &k
		ni.OnLeft = n == n.parent.left
	}
	if n.left != t.nil {
		k := n.left.key
		ni.Left = &k
	}
	if n.right != t.nil {
		k := n.right.key
		ni.Right = &k
	}
	return ni
}
