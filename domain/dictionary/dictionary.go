package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/xlab/treeprint"

	"lexicon/domain/rbtree"
)

// Dictionary is a word list backed by a red-black tree. Like the tree it is
// not safe for concurrent use.
type Dictionary struct {
	words *rbtree.Tree[string]
}

// Verdict is the outcome of a spell check.
type Verdict struct {
	Word  string
	Found bool
	// Suggestion is the word itself when Found, otherwise the word where the
	// search gave up. HasSuggestion is false only for an empty dictionary.
	Suggestion    string
	HasSuggestion bool
	Compares      int
}

func New() *Dictionary {
	return &Dictionary{words: rbtree.New[string]()}
}

func (d *Dictionary) Add(word string) {
	d.words.Insert(word)
}

func (d *Dictionary) Check(word string) Verdict {
	found, compares := d.words.ContainsCount(word)
	suggestion, ok := d.words.CloseBy(word)
	return Verdict{
		Word:          word,
		Found:         found,
		Suggestion:    suggestion,
		HasSuggestion: ok,
		Compares:      compares,
	}
}

func (d *Dictionary) Len() int                { return d.words.Size() }
func (d *Dictionary) Height() int             { return d.words.Height() }
func (d *Dictionary) HeightBound() float64    { return rbtree.HeightBound(d.words.Size()) }
func (d *Dictionary) Words() iter.Seq[string] { return d.words.InOrder() }
func (d *Dictionary) Verify() error           { return d.words.Verify() }

// LevelOrder yields the words breadth first.
func (d *Dictionary) LevelOrder() iter.Seq[string] { return d.words.LevelOrder() }

// Levels yields a description of every tree node breadth first.
func (d *Dictionary) Levels() iter.Seq[rbtree.NodeInfo[string]] { return d.words.Levels() }

// Load adds one word per line of r. Surrounding blanks are trimmed and empty
// lines skipped. It returns the number of words added, which is also correct
// when reading fails half way.
func (d *Dictionary) Load(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		word := strings.TrimSpace(sc.Text())
		if word == "" {
			continue
		}
		d.words.Insert(word)
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("reading word list: %w", err)
	}
	return n, nil
}

// Render draws the tree shape. Children are prefixed with the side they hang
// off and red nodes are marked.
func (d *Dictionary) Render() string {
	tp := treeprint.New()
	// branches[i] is the branch nodes of depth i attach to
	branches := []treeprint.Tree{tp}
	for depth, ni := range d.words.PreOrder() {
		label := ni.Key
		if ni.Parent != nil {
			if ni.OnLeft {
				label = "L: " + label
			} else {
				label = "R: " + label
			}
		}
		if ni.Color == rbtree.Red {
			label += " (red)"
		}
		node := branches[depth].AddBranch(label)
		branches = append(branches[:depth+1], node)
	}
	return tp.String()
}
