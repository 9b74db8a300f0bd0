package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jokeoftheday/jotd/internal/joke"
	"github.com/jokeoftheday/jotd/internal/similarity"
)

func existing(texts ...string) []joke.Joke {
	out := make([]joke.Joke, len(texts))
	for i, t := range texts {
		out[i] = joke.Joke{ID: i + 1, Text: t, Rating: "G", Active: true}
	}
	return out
}

func TestClassifyExactMatch(t *testing.T) {
	g := NewGuard(DefaultThreshold)
	res := g.Classify("Why did the chicken cross the road?",
		existing("Why did the chicken cross the road?"))
	require.Equal(t, ExactMatch, res.Verdict)
	require.Equal(t, 1, res.Match.ID)
}

func TestClassifyExactMatchIgnoresPunctuationAndCase(t *testing.T) {
	g := NewGuard(DefaultThreshold)
	res := g.Classify("why DID the chicken cross the road!!",
		existing("Why did the chicken cross the road?"))
	require.Equal(t, ExactMatch, res.Verdict)
}

func TestClassifySimilarAboveDefaultThreshold(t *testing.T) {
	// single-word plural change keeps trigram overlap high (~0.86)
	g := NewGuard(DefaultThreshold)
	res := g.Classify("Why did the chickens cross the road?",
		existing("Why did the chicken cross the road?"))
	require.Equal(t, Similar, res.Verdict)
	require.Equal(t, 1, res.Match.ID)
	require.GreaterOrEqual(t, res.Score, DefaultThreshold)
	// score is rounded to 3 decimals for display
	require.InDelta(t, res.Score, float64(int(res.Score*1000+0.5))/1000, 1e-9)
}

func TestClassifyNovelBelowDefaultThreshold(t *testing.T) {
	// different last word drops the score to ~0.66
	g := NewGuard(DefaultThreshold)
	res := g.Classify("Why did the chicken cross the street?",
		existing("Why did the chicken cross the road?"))
	require.Equal(t, Novel, res.Verdict)
}

func TestClassifyThresholdBoundaryIsInclusive(t *testing.T) {
	a := "Why did the chicken cross the street?"
	b := "Why did the chicken cross the road?"
	score := similarity.Jaccard(
		similarity.TrigramSet(similarity.Normalize(a)),
		similarity.TrigramSet(similarity.Normalize(b)),
	)
	require.Greater(t, score, 0.0)

	// a score exactly at the threshold classifies as Similar (>=) ...
	atBoundary := NewGuard(score)
	require.Equal(t, Similar, atBoundary.Classify(a, existing(b)).Verdict)

	// ... and a hair under the threshold does not
	justAbove := NewGuard(score + 1e-9)
	require.Equal(t, Novel, justAbove.Classify(a, existing(b)).Verdict)
}

func TestClassifyLaterExactMatchWinsOverEarlierHighScore(t *testing.T) {
	g := NewGuard(DefaultThreshold)
	res := g.Classify("Why did the chicken cross the road?", existing(
		"Why did the chickens cross the road?", // similar, not exact
		"Why did the chicken cross the road?",  // exact, later in the scan
	))
	require.Equal(t, ExactMatch, res.Verdict)
	require.Equal(t, 2, res.Match.ID)
}

func TestClassifySkipsEmptyTexts(t *testing.T) {
	g := NewGuard(DefaultThreshold)
	res := g.Classify("A fresh new joke about gophers", []joke.Joke{
		{ID: 1, Text: ""},
		{ID: 2, Text: "Something entirely different about penguins"},
	})
	require.Equal(t, Novel, res.Verdict)
}

func TestClassifyEmptyCollection(t *testing.T) {
	g := NewGuard(DefaultThreshold)
	require.Equal(t, Novel, g.Classify("anything", nil).Verdict)
}

func TestClassifyTracksBestMatch(t *testing.T) {
	g := NewGuard(0.5)
	res := g.Classify("Why did the chicken cross the road?", existing(
		"Totally unrelated pun about cheese",
		"Why did the chickens cross the road?",
	))
	require.Equal(t, Similar, res.Verdict)
	require.Equal(t, 2, res.Match.ID)
}
