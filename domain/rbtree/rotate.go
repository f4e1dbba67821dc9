package rbtree

import "fmt"

// leftRotate lifts x.right above x. The sentinel's links are never written.
func (t *Tree[K]) leftRotate(x *Node[K]) {
	y := x.right
	if y == t.nil {
		panic(fmt.Sprintf("rbtree: left rotation around %v without a right child", x.key))
	}
	x.right = y.left
	if y.left != t.nil {
		y.left.parent = x
	}
	t.replaceChild(x, y)
	y.left = x
	x.parent = y
}

// rightRotate lifts x.left above x.
func (t *Tree[K]) rightRotate(x *Node[K]) {
	y := x.left
	if y == t.nil {
		panic(fmt.Sprintf("rbtree: right rotation around %v without a left child", x.key))
	}
	x.left = y.right
	if y.right != t.nil {
		y.right.parent = x
	}
	t.replaceChild(x, y)
	y.right = x
	x.parent = y
}

// replaceChild hangs c where x used to hang under x's parent, or makes c the
// root. x keeps its own parent link; the caller re-parents it.
func (t *Tree[K]) replaceChild(x, c *Node[K]) {
	p := x.parent
	c.parent = p
	switch {
	case p == t.nil:
		t.root = c
	case x == p.left:
		p.left = c
	default:
		p.right = c
	}
}
