package dictionary

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const shortWords = `apple
banana

  cherry
date
elderberry
fig
`

func loaded(t *testing.T) *Dictionary {
	t.Helper()
	d := New()
	n, err := d.Load(strings.NewReader(shortWords))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	return d
}

func TestLoad(t *testing.T) {
	d := loaded(t)
	require.Equal(t, 6, d.Len())
	require.NoError(t, d.Verify())
	require.Equal(t,
		[]string{"apple", "banana", "cherry", "date", "elderberry", "fig"},
		slices.Collect(d.Words()))
	require.LessOrEqual(t, float64(d.Height()), d.HeightBound())
}

func TestLoadWindowsLineEndings(t *testing.T) {
	d := New()
	n, err := d.Load(strings.NewReader("one\r\ntwo\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{"one", "two"}, slices.Collect(d.Words()))
}

type failingReader struct{ r io.Reader }

func (f failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, errors.New("disk on fire")
	}
	return n, err
}

func TestLoadReadError(t *testing.T) {
	d := New()
	n, err := d.Load(failingReader{strings.NewReader("a\nb\n")})
	require.ErrorContains(t, err, "disk on fire")
	require.Equal(t, 2, n)
	require.Equal(t, 2, d.Len())
}

func TestCheck(t *testing.T) {
	d := loaded(t)

	v := d.Check("cherry")
	require.True(t, v.Found)
	require.True(t, v.HasSuggestion)
	require.Equal(t, "cherry", v.Suggestion)
	require.Positive(t, v.Compares)

	v = d.Check("cherri")
	require.False(t, v.Found)
	require.True(t, v.HasSuggestion)
	require.Contains(t, []string{"banana", "cherry"}, v.Suggestion)

	v = d.Check("zebra")
	require.False(t, v.Found)
	require.Equal(t, "fig", v.Suggestion)
}

func TestCheckEmptyDictionary(t *testing.T) {
	v := New().Check("anything")
	require.Equal(t, "anything", v.Word)
	require.False(t, v.Found)
	require.False(t, v.HasSuggestion)
	require.Zero(t, v.Compares)
}

func TestAddThenCheck(t *testing.T) {
	d := loaded(t)
	require.False(t, d.Check("grape").Found)
	d.Add("grape")
	require.True(t, d.Check("grape").Found)
	require.Equal(t, 7, d.Len())
	require.NoError(t, d.Verify())
}

func TestRender(t *testing.T) {
	d := New()
	for _, w := range []string{"1", "2", "3", "4", "5"} {
		d.Add(w)
	}
	out := d.Render()
	for _, line := range []string{"── 2\n", "── L: 1\n", "── R: 4\n", "── L: 3 (red)\n", "── R: 5 (red)\n"} {
		require.Contains(t, out, line)
	}
	// 2 is drawn before its children, 4 before 3
	require.Less(t, strings.Index(out, " 2\n"), strings.Index(out, "L: 1"))
	require.Less(t, strings.Index(out, "R: 4"), strings.Index(out, "L: 3"))
}

func TestLevelOrder(t *testing.T) {
	d := New()
	for _, w := range []string{"1", "2", "3", "4", "5"} {
		d.Add(w)
	}
	require.Equal(t, []string{"2", "1", "4", "3", "5"}, slices.Collect(d.LevelOrder()))
	require.Len(t, slices.Collect(d.Levels()), 5)
}
