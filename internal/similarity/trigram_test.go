package similarity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrigramSetContents(t *testing.T) {
	set := TrigramSet("ab")
	// padded: "  ab  " -> "  a", " ab", "ab ", "b  "
	require.Len(t, set, 4)
	for _, tri := range []string{"  a", " ab", "ab ", "b  "} {
		require.Contains(t, set, tri)
	}
}

func TestTrigramSetCollapsesDuplicates(t *testing.T) {
	// "aaaa" padded yields "  a", " aa", "aaa" (x2 collapses), "aa ", "a  "
	set := TrigramSet("aaaa")
	require.Len(t, set, 5)
}

func TestJaccardIdentity(t *testing.T) {
	for _, s := range []string{"a", "hello world", "why did the chicken cross the road"} {
		require.Equal(t, 1.0, Jaccard(TrigramSet(s), TrigramSet(s)))
	}
}

func TestJaccardBothEmpty(t *testing.T) {
	require.Equal(t, 0.0, Jaccard(map[string]struct{}{}, map[string]struct{}{}))
	require.Equal(t, 0.0, Jaccard(nil, nil))
}

func TestJaccardDisjointAndPartial(t *testing.T) {
	a := map[string]struct{}{"x": {}, "y": {}}
	b := map[string]struct{}{"p": {}, "q": {}}
	require.Equal(t, 0.0, Jaccard(a, b))

	// 2 common out of 4 total
	c := map[string]struct{}{"x": {}, "y": {}, "z": {}}
	d := map[string]struct{}{"y": {}, "z": {}, "w": {}}
	require.Equal(t, 0.5, Jaccard(c, d))
}

func TestJaccardSymmetric(t *testing.T) {
	a := TrigramSet("knock knock who is there")
	b := TrigramSet("knock knock anyone home")
	require.Equal(t, Jaccard(a, b), Jaccard(b, a))
}

func TestJaccardWordOrderSensitive(t *testing.T) {
	// anagram phrasings share words but not contiguous trigrams, so they
	// should score well below identical phrasing
	base := TrigramSet(Normalize("the quick brown fox"))
	reordered := TrigramSet(Normalize("fox brown quick the"))
	near := TrigramSet(Normalize("the quick brown foxes"))
	require.Less(t, Jaccard(base, reordered), Jaccard(base, near))
}
