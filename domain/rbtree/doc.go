// Package rbtree implements an insert-only red-black tree over ordered keys.
//
// Absent children and the root's parent are represented by a single black
// sentinel node owned by the tree. Duplicate keys are accepted and stored to
// the right of the equal keys already present. Besides exact lookups the tree
// answers CloseBy queries, which return the key where the ordinary search path
// for a missing key runs out.
package rbtree
