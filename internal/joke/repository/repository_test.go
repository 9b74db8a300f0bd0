package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jokeoftheday/jotd/internal/cache"
	"github.com/jokeoftheday/jotd/internal/joke"
	"github.com/jokeoftheday/jotd/internal/store"
)

func seeded(t *testing.T, jokes []joke.Joke) (*Repository, *store.MemoryStore) {
	t.Helper()
	m := store.NewMemoryStore()
	b, err := json.Marshal(jokes)
	require.NoError(t, err)
	m.Seed(b)
	return New(m, nil, "jokes.json"), m
}

func TestReadParsesCollection(t *testing.T) {
	repo, _ := seeded(t, []joke.Joke{
		{ID: 1, Text: "a", Rating: "G", Category: "puns", Active: true},
		{ID: 2, Text: "b", Rating: "PG", Category: "dad", Active: false},
	})
	doc, err := repo.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Jokes, 2)
	require.Equal(t, "v1", doc.Version)
}

func TestReadMissingDocumentIsEmptyCollection(t *testing.T) {
	repo := New(store.NewMemoryStore(), nil, "jokes.json")
	doc, err := repo.Read(context.Background())
	require.NoError(t, err)
	require.Empty(t, doc.Jokes)
	require.Equal(t, "", doc.Version)
}

func TestReadSchemaErrorNotArray(t *testing.T) {
	m := store.NewMemoryStore()
	m.Seed([]byte(`{"not":"an array"}`))
	repo := New(m, nil, "jokes.json")

	_, err := repo.Read(context.Background())
	var schemaErr *joke.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestReadSchemaErrorBadElement(t *testing.T) {
	cases := []string{
		`[{"id":"one","text":"t","rating":"G","category":"c","active":true}]`, // mistyped id
		`[{"text":"t","rating":"G","category":"c","active":true}]`,            // missing id
		`[{"id":1,"text":"t","rating":"G","category":"c","active":"yes"}]`,    // mistyped active
	}
	for _, raw := range cases {
		m := store.NewMemoryStore()
		m.Seed([]byte(raw))
		repo := New(m, nil, "jokes.json")
		_, err := repo.Read(context.Background())
		var schemaErr *joke.SchemaError
		require.ErrorAs(t, err, &schemaErr, "input %s", raw)
	}
}

func TestAppendAssignsMaxPlusOne(t *testing.T) {
	existing := []joke.Joke{
		{ID: 3, Text: "c", Rating: "G", Active: true},
		{ID: 1, Text: "a", Rating: "G", Active: true},
		{ID: 7, Text: "g", Rating: "G", Active: true},
	}
	out, added := Append(existing, joke.Joke{Text: "new", Rating: "PG", Active: true})
	require.Len(t, out, 4)
	require.Equal(t, []int{1, 3, 7, 8}, []int{out[0].ID, out[1].ID, out[2].ID, out[3].ID})
	require.Equal(t, "new", out[3].Text)
	require.Equal(t, 8, added.ID)
	require.Equal(t, "new", added.Text)
}

func TestAppendEmptyCollection(t *testing.T) {
	out, added := Append(nil, joke.Joke{Text: "first", Rating: "G", Active: true})
	require.Len(t, out, 1)
	require.Equal(t, 1, out[0].ID)
	require.Equal(t, 1, added.ID)
}

func TestWriteRoundTrip(t *testing.T) {
	repo, _ := seeded(t, []joke.Joke{{ID: 1, Text: "a", Rating: "G", Category: "puns", Active: true}})
	ctx := context.Background()

	doc, err := repo.Read(ctx)
	require.NoError(t, err)

	collection, _ := Append(doc.Jokes, joke.Joke{Text: "b", Rating: "PG", Category: "dad", Active: true})
	newVersion, err := repo.Write(ctx, collection, doc.Version)
	require.NoError(t, err)
	require.NotEqual(t, doc.Version, newVersion)

	after, err := repo.Read(ctx)
	require.NoError(t, err)
	require.Len(t, after.Jokes, 2)
	require.Equal(t, 2, after.Jokes[1].ID)
}

func TestWriteStaleTokenConflictLeavesStoreUnchanged(t *testing.T) {
	repo, _ := seeded(t, []joke.Joke{{ID: 1, Text: "a", Rating: "G", Category: "puns", Active: true}})
	ctx := context.Background()

	doc, err := repo.Read(ctx)
	require.NoError(t, err)

	// a concurrent writer wins the race
	winner, _ := Append(doc.Jokes, joke.Joke{Text: "winner", Rating: "G", Active: true})
	_, err = repo.Write(ctx, winner, doc.Version)
	require.NoError(t, err)

	// the stale token is rejected
	loser, _ := Append(doc.Jokes, joke.Joke{Text: "loser", Rating: "G", Active: true})
	_, err = repo.Write(ctx, loser, doc.Version)
	var conflict *joke.ConflictError
	require.ErrorAs(t, err, &conflict)

	// and a subsequent read shows the winner's collection, untouched
	after, err := repo.Read(ctx)
	require.NoError(t, err)
	require.Len(t, after.Jokes, 2)
	require.Equal(t, "winner", after.Jokes[1].Text)
}

func TestWriteRejectsInvalidJoke(t *testing.T) {
	repo, _ := seeded(t, []joke.Joke{})
	_, err := repo.Write(context.Background(), []joke.Joke{{ID: 1, Text: "", Rating: "G"}}, "v1")
	var schemaErr *joke.SchemaError
	require.ErrorAs(t, err, &schemaErr)

	_, err = repo.Write(context.Background(), []joke.Joke{{ID: 1, Text: "x", Rating: "XX"}}, "v1")
	require.ErrorAs(t, err, &schemaErr)
}

func TestWriteSerializesDiffFriendly(t *testing.T) {
	m := store.NewMemoryStore()
	m.Seed([]byte(`[]`))
	repo := New(m, nil, "jokes.json")
	ctx := context.Background()

	doc, err := repo.Read(ctx)
	require.NoError(t, err)
	collection, _ := Append(doc.Jokes, joke.Joke{Text: "a", Rating: "G", Active: true})
	_, err = repo.Write(ctx, collection, doc.Version)
	require.NoError(t, err)

	raw, err := m.Read(ctx)
	require.NoError(t, err)
	// two-space indentation and a trailing newline keep diffs reviewable
	require.Contains(t, string(raw.Content), "\n  {")
	require.Equal(t, byte('\n'), raw.Content[len(raw.Content)-1])
}

func TestCacheReadThroughAndInvalidation(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	docCache := cache.New(client, "test:jokes", 30*time.Second)

	mem := store.NewMemoryStore()
	b, _ := json.Marshal([]joke.Joke{{ID: 1, Text: "a", Rating: "G", Category: "x", Active: true}})
	v1 := mem.Seed(b)
	repo := New(mem, docCache, "jokes.json")
	ctx := context.Background()

	// first read populates the cache
	doc, err := repo.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, v1, doc.Version)

	// mutate the store underneath; the cached snapshot still serves
	b2, _ := json.Marshal([]joke.Joke{{ID: 1, Text: "changed", Rating: "G", Category: "x", Active: true}})
	mem.Seed(b2)
	cached, err := repo.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", cached.Jokes[0].Text)

	// ReadFresh bypasses the cache
	fresh, err := repo.ReadFresh(ctx)
	require.NoError(t, err)
	require.Equal(t, "changed", fresh.Jokes[0].Text)

	// a successful write invalidates, so the next Read is not stale
	updated, _ := Append(fresh.Jokes, joke.Joke{Text: "b", Rating: "PG", Active: true})
	_, err = repo.Write(ctx, updated, fresh.Version)
	require.NoError(t, err)
	after, err := repo.Read(ctx)
	require.NoError(t, err)
	require.Len(t, after.Jokes, 2)
}
