package pick

import (
	"crypto/rand"
	"math/big"
	"sort"
	"strings"

	"github.com/jokeoftheday/jotd/internal/joke"
)

// 32-bit FNV-1a parameters. The hash is tiny and stable across platforms,
// which is all the selector needs: same seed, same joke, no stored state.
const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

func fnv1a32(s string) uint32 {
	h := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// Seed builds the canonical selector seed: date, sorted ratings, sorted
// categories, pipe-separated. Sorting makes the seed independent of the order
// filters arrived in, so "PG,G" and "G,PG" serve the same joke all day.
func Seed(date string, ratings, categories []string) string {
	r := append([]string(nil), ratings...)
	for i := range r {
		r[i] = strings.ToUpper(strings.TrimSpace(r[i]))
	}
	sort.Strings(r)
	c := append([]string(nil), categories...)
	for i := range c {
		c[i] = strings.ToLower(strings.TrimSpace(c[i]))
	}
	sort.Strings(c)
	return date + "|" + strings.Join(r, ",") + "|" + strings.Join(c, ",")
}

// Deterministic picks the joke at FNV-1a(seed) mod len(pool). The same pool
// and seed always yield the same joke; the pick rolls over exactly at the
// local-midnight boundary baked into the seed's date component.
func Deterministic(pool []joke.Joke, seed string) (joke.Joke, error) {
	if len(pool) == 0 {
		return joke.Joke{}, &joke.EmptyPoolError{}
	}
	return pool[int(fnv1a32(seed)%uint32(len(pool)))], nil
}

// Random picks a cryptographically random member of the pool.
func Random(pool []joke.Joke) (joke.Joke, error) {
	if len(pool) == 0 {
		return joke.Joke{}, &joke.EmptyPoolError{}
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return joke.Joke{}, err
	}
	return pool[n.Int64()], nil
}
