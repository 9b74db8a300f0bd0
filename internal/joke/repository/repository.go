// Package repository owns read-modify-write of the joke collection against
// the versioned blob store. It is deliberately retry-free: on a version
// conflict the ConflictError propagates to the admin caller, who must re-read
// and resubmit. Silent retry could mask two admins racing to enter the same
// joke.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jokeoftheday/jotd/internal/cache"
	"github.com/jokeoftheday/jotd/internal/joke"
	"github.com/jokeoftheday/jotd/internal/store"
	"github.com/jokeoftheday/jotd/pkg/metrics"
)

// storeTimeout bounds every backing-store call so a hung transport surfaces
// as StoreUnavailableError instead of stalling the request.
const storeTimeout = 8 * time.Second

// Versioned pairs a parsed collection with the version token that authorizes
// a subsequent conditional write.
type Versioned struct {
	Jokes   []joke.Joke
	Version string
}

type Repository struct {
	store store.Store
	cache *cache.DocumentCache
	path  string
}

// New builds a repository over the given store. cache may be nil.
func New(s store.Store, c *cache.DocumentCache, path string) *Repository {
	return &Repository{store: s, cache: c, path: path}
}

// Read fetches and parses the collection, consulting the read-through cache
// first. Suitable for public serving.
func (r *Repository) Read(ctx context.Context) (*Versioned, error) {
	if doc := r.cache.Get(ctx); doc != nil {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return decode(doc)
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	doc, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Put(ctx, doc)
	return decode(doc)
}

// ReadFresh bypasses the cache. The admin write path uses it so the version
// token it bases the conditional write on is as current as possible.
func (r *Repository) ReadFresh(ctx context.Context) (*Versioned, error) {
	doc, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return decode(doc)
}

func (r *Repository) fetch(ctx context.Context) (*store.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	doc, err := r.store.Read(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// an absent document is an empty collection, version "" (create on first write)
			return &store.Document{Content: []byte("[]")}, nil
		}
		return nil, &joke.StoreUnavailableError{Err: err}
	}
	return doc, nil
}

// Append assigns the next id (max existing + 1, never reused) and returns
// the collection re-sorted by ascending id along with the appended joke. The
// sort only keeps the stored file diff-friendly; serving order is irrelevant.
func Append(existing []joke.Joke, j joke.Joke) ([]joke.Joke, joke.Joke) {
	maxID := 0
	for _, e := range existing {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	j.ID = maxID + 1
	out := append(append([]joke.Joke(nil), existing...), j)
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, j
}

// Write serializes the collection and commits it conditioned on
// expectedVersion. On success the cache is invalidated so the next Read is
// not stale, and the new version token is returned.
func (r *Repository) Write(ctx context.Context, jokes []joke.Joke, expectedVersion string) (string, error) {
	for i, j := range jokes {
		if err := validate(j); err != nil {
			return "", &joke.SchemaError{Reason: fmt.Sprintf("joke %d: %v", i, err)}
		}
	}
	content, err := json.MarshalIndent(jokes, "", "  ")
	if err != nil {
		return "", &joke.SchemaError{Reason: err.Error()}
	}
	content = append(content, '\n')

	wctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	version, err := r.store.Write(wctx, content, expectedVersion)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			metrics.WriteConflicts.Inc()
			return "", &joke.ConflictError{Path: r.path}
		default:
			return "", &joke.StoreUnavailableError{Err: err}
		}
	}
	r.cache.Invalidate(ctx)
	return version, nil
}

// decode parses the raw document and schema-checks every element: the stored
// blob must be a JSON array of well-formed jokes (field presence and types).
func decode(doc *store.Document) (*Versioned, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(doc.Content, &elements); err != nil {
		return nil, &joke.SchemaError{Reason: "stored document is not a JSON array: " + err.Error(), Stored: true}
	}
	jokes := make([]joke.Joke, 0, len(elements))
	for i, raw := range elements {
		j, err := decodeJoke(raw)
		if err != nil {
			return nil, &joke.SchemaError{Reason: fmt.Sprintf("element %d: %v", i, err), Stored: true}
		}
		jokes = append(jokes, j)
	}
	return &Versioned{Jokes: jokes, Version: doc.Version}, nil
}

func decodeJoke(raw json.RawMessage) (joke.Joke, error) {
	// pointer fields distinguish "missing" from zero values
	var probe struct {
		ID       *int    `json:"id"`
		Text     *string `json:"text"`
		Rating   *string `json:"rating"`
		Category *string `json:"category"`
		Active   *bool   `json:"active"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		// unknown fields are tolerated; mistyped known fields are not
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return joke.Joke{}, fmt.Errorf("field %q has wrong type", typeErr.Field)
		}
		return joke.Joke{}, err
	}
	if probe.ID == nil || probe.Text == nil || probe.Rating == nil || probe.Category == nil || probe.Active == nil {
		return joke.Joke{}, errors.New("missing required field")
	}
	return joke.Joke{ID: *probe.ID, Text: *probe.Text, Rating: *probe.Rating, Category: *probe.Category, Active: *probe.Active}, nil
}

func validate(j joke.Joke) error {
	if j.Text == "" {
		return errors.New("text must be non-empty")
	}
	if !joke.ValidRating(j.Rating) {
		return fmt.Errorf("unknown rating %q", j.Rating)
	}
	return nil
}
