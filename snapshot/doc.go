// Package snapshot persists the dictionary as a gob encoded word list tagged
// with the journal sequence number it covers. Words are stored breadth first
// so that reloading them rebuilds a tree of a similar shape.
package snapshot
