package rbtree

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func colors[K any](tree *Tree[K]) []Color {
	var out []Color
	for ni := range tree.Levels() {
		out = append(out, ni.Color)
	}
	return out
}

func TestFixupCases(t *testing.T) {
	tests := []struct {
		name   string
		keys   []int
		level  []int
		colors []Color
	}{
		{
			name:   "outer child, parent on the right",
			keys:   []int{1, 2, 3},
			level:  []int{2, 1, 3},
			colors: []Color{Black, Red, Red},
		},
		{
			name:   "outer child, parent on the left",
			keys:   []int{3, 2, 1},
			level:  []int{2, 1, 3},
			colors: []Color{Black, Red, Red},
		},
		{
			name:   "inner child, parent on the left",
			keys:   []int{3, 1, 2},
			level:  []int{2, 1, 3},
			colors: []Color{Black, Red, Red},
		},
		{
			name:   "inner child, parent on the right",
			keys:   []int{1, 3, 2},
			level:  []int{2, 1, 3},
			colors: []Color{Black, Red, Red},
		},
		{
			name:   "red uncle recolors",
			keys:   []int{2, 1, 3, 4},
			level:  []int{2, 1, 3, 4},
			colors: []Color{Black, Black, Black, Red},
		},
		{
			name:   "red uncle on the left side",
			keys:   []int{3, 2, 4, 1},
			level:  []int{3, 2, 4, 1},
			colors: []Color{Black, Black, Black, Red},
		},
		{
			name:   "recolor then rotate",
			keys:   []int{1, 2, 3, 4, 5},
			level:  []int{2, 1, 4, 3, 5},
			colors: []Color{Black, Black, Black, Red, Red},
		},
		{
			name:   "recolor propagates to the root",
			keys:   []int{10, 5, 15, 3, 7, 12, 18, 1},
			level:  []int{10, 5, 15, 3, 7, 12, 18, 1},
			colors: []Color{Black, Red, Black, Black, Black, Red, Red, Red},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := New[int]()
			insertAll(tree, tc.keys...)
			require.NoError(t, tree.Verify())
			require.Equal(t, tc.level, levelKeys(tree))
			require.Equal(t, tc.colors, colors(tree))
		})
	}
}

func TestRotationAroundSentinelPanics(t *testing.T) {
	tree := New[int]()
	tree.Insert(1)
	require.Panics(t, func() { tree.leftRotate(tree.root) })
	require.Panics(t, func() { tree.rightRotate(tree.root) })
	// a refused rotation leaves the tree as it was
	require.NoError(t, tree.Verify())
	require.Equal(t, 1, tree.root.key)
}

func TestRotationsPreserveOrder(t *testing.T) {
	tree := New[int]()
	insertAll(tree, 4, 2, 6, 1, 3, 5, 7)
	want := slices.Collect(tree.InOrder())

	oldRoot := tree.root
	tree.leftRotate(oldRoot)
	require.Equal(t, 6, tree.root.key)
	require.Same(t, tree.nil, tree.root.parent)
	require.Same(t, oldRoot, tree.root.left)
	require.Equal(t, 5, oldRoot.right.key)
	require.Same(t, oldRoot, oldRoot.right.parent)
	require.Equal(t, want, slices.Collect(tree.InOrder()))

	tree.rightRotate(tree.root)
	require.Same(t, oldRoot, tree.root)
	require.Equal(t, want, slices.Collect(tree.InOrder()))
	require.NoError(t, tree.Verify())
}

func TestRotationBelowRoot(t *testing.T) {
	tree := New[int]()
	insertAll(tree, 4, 2, 6, 1, 3, 5, 7)
	want := slices.Collect(tree.InOrder())

	two := tree.root.left
	tree.leftRotate(two)
	require.Equal(t, 3, tree.root.left.key)
	require.Same(t, tree.root, tree.root.left.parent)
	require.Equal(t, want, slices.Collect(tree.InOrder()))

	tree.rightRotate(tree.root.left)
	require.Same(t, two, tree.root.left)
	require.Equal(t, want, slices.Collect(tree.InOrder()))
}

func TestRandomInsertionsKeepInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rnd := rand.New(rand.NewPCG(seed, seed*7919))
		n := 1 + rnd.IntN(600)
		keys := make([]int, n)
		for i := range keys {
			// narrow range so duplicates show up
			keys[i] = rnd.IntN(n)
		}
		rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

		tree := New[int]()
		for i, k := range keys {
			tree.Insert(k)
			if i%37 == 0 {
				require.NoError(t, tree.Verify(), "seed %d after %d inserts", seed, i+1)
			}
		}
		require.NoError(t, tree.Verify(), "seed %d", seed)
		require.Equal(t, n, tree.Size())
		require.LessOrEqual(t, float64(tree.Height()), HeightBound(n))

		sorted := slices.Clone(keys)
		slices.Sort(sorted)
		require.Equal(t, sorted, slices.Collect(tree.InOrder()))

		for _, k := range keys {
			require.True(t, tree.Contains(k))
		}
		require.False(t, tree.Contains(-1))
		require.False(t, tree.Contains(n))

		require.ElementsMatch(t, keys, levelKeys(tree))
	}
}

func TestSortedInsertionsStayBalanced(t *testing.T) {
	asc := New[int]()
	desc := New[int]()
	const n = 4096
	for i := 0; i < n; i++ {
		asc.Insert(i)
		desc.Insert(n - i)
	}
	for _, tree := range []*Tree[int]{asc, desc} {
		require.NoError(t, tree.Verify())
		require.LessOrEqual(t, float64(tree.Height()), HeightBound(n))
	}
}
