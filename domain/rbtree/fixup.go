package rbtree

// insertFixup restores the red-black properties after z was linked in red. On
// every iteration the only violation is z and z.parent both being red, so
// z.parent is never the root and z's grandparent is a real node.
func (t *Tree[K]) insertFixup(z *Node[K]) {
	for z.parent.color == Red {
		gp := z.parent.parent
		if z.parent == gp.left {
			uncle := gp.right
			if uncle.color == Red {
				// recolor and move the violation two levels up
				z.parent.color = Black
				uncle.color = Black
				gp.color = Red
				z = gp
				continue
			}
			if z == z.parent.right {
				// inner child: turn it into the outer case
				z = z.parent
				t.leftRotate(z)
			}
			z.parent.color = Black
			z.parent.parent.color = Red
			t.rightRotate(z.parent.parent)
		} else {
			uncle := gp.left
			if uncle.color == Red {
				z.parent.color = Black
				uncle.color = Black
				gp.color = Red
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rightRotate(z)
			}
			z.parent.color = Black
			z.parent.parent.color = Red
			t.leftRotate(z.parent.parent)
		}
	}
	t.root.color = Black
}
