package rbtree

// Contains reports whether key is in the tree. The number of key comparisons it
// performs is available from RecentCompares until the next call.
func (t *Tree[K]) Contains(key K) bool {
	found, _ := t.ContainsCount(key)
	return found
}

// ContainsCount is Contains returning the comparison count as well.
func (t *Tree[K]) ContainsCount(key K) (found bool, compares int) {
	t.recentCompares = 0
	n := t.root
	for n != t.nil {
		t.recentCompares++
		c := t.compare(n.key, key)
		switch {
		case c == 0:
			return true, t.recentCompares
		case c < 0:
			n = n.right
		default:
			n = n.left
		}
	}
	return false, t.recentCompares
}

// RecentCompares returns the number of key comparisons made by the most recent
// Contains call.
func (t *Tree[K]) RecentCompares() int { return t.recentCompares }

// CloseBy returns key itself when present. Otherwise it returns the key of the
// last node on the search path for key, which is not necessarily the nearest
// key in the tree. ok is false only for an empty tree.
func (t *Tree[K]) CloseBy(key K) (_ K, ok bool) {
	last := t.nil
	n := t.root
	for n != t.nil {
		c := t.compare(n.key, key)
		if c == 0 {
			return n.key, true
		}
		last = n
		if c < 0 {
			n = n.right
		} else {
			n = n.left
		}
	}
	if last == t.nil {
		var zero K
		return zero, false
	}
	return last.key, true
}

// Height returns the number of edges on the longest root to leaf path. Empty
// and single node trees have height 0.
func (t *Tree[K]) Height() int {
	return t.height(t.root)
}

func (t *Tree[K]) height(n *Node[K]) int {
	if n == t.nil || (n.left == t.nil && n.right == t.nil) {
		return 0
	}
	return 1 + max(t.height(n.left), t.height(n.right))
}
