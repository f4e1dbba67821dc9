// Package memory provides object reuse for hot write paths. The journal
// draws its frame buffers from a Pool so that appending a word does not
// allocate a fresh buffer per record.
package memory
