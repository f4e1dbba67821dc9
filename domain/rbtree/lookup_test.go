package rbtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsCountsComparisons(t *testing.T) {
	tree := New[int]()
	insertAll(tree, 1, 2, 3, 4, 5) // 2 -> (1, 4 -> (3, 5))

	tests := []struct {
		key      int
		found    bool
		compares int
	}{
		{key: 2, found: true, compares: 1},
		{key: 1, found: true, compares: 2},
		{key: 4, found: true, compares: 2},
		{key: 3, found: true, compares: 3},
		{key: 5, found: true, compares: 3},
		{key: 0, found: false, compares: 2},
		{key: 6, found: false, compares: 3},
	}
	for _, tc := range tests {
		found, compares := tree.ContainsCount(tc.key)
		require.Equal(t, tc.found, found, "key %d", tc.key)
		require.Equal(t, tc.compares, compares, "key %d", tc.key)
		require.Equal(t, tc.compares, tree.RecentCompares(), "key %d", tc.key)
	}
}

func TestRecentComparesResetsPerCall(t *testing.T) {
	tree := New[int]()
	insertAll(tree, 1, 2, 3, 4, 5)

	require.True(t, tree.Contains(5))
	require.Equal(t, 3, tree.RecentCompares())
	require.True(t, tree.Contains(2))
	require.Equal(t, 1, tree.RecentCompares())

	// other operations leave the counter alone
	tree.CloseBy(3)
	tree.Height()
	require.Equal(t, 1, tree.RecentCompares())
}

func TestCloseByFollowsSearchPath(t *testing.T) {
	tree := New[int]()
	insertAll(tree, 10, 20, 30, 40, 50) // 20 -> (10, 40 -> (30, 50))

	tests := []struct {
		key  int
		want int
	}{
		{key: 30, want: 30},
		{key: 60, want: 50},
		{key: 5, want: 10},
		{key: 15, want: 10},
		// 21 ends below 30 although 20 is nearer
		{key: 21, want: 30},
		{key: 35, want: 30},
		{key: 45, want: 50},
	}
	for _, tc := range tests {
		got, ok := tree.CloseBy(tc.key)
		require.True(t, ok)
		require.Equal(t, tc.want, got, "key %d", tc.key)
	}
}

func TestHeight(t *testing.T) {
	tree := New[int]()
	require.Zero(t, tree.Height())
	tree.Insert(1)
	require.Zero(t, tree.Height())
	tree.Insert(2)
	require.Equal(t, 1, tree.Height())
	tree.Insert(3)
	require.Equal(t, 1, tree.Height())
	tree.Insert(4)
	require.Equal(t, 2, tree.Height())
}
