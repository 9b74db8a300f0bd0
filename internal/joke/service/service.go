// Package service implements the business operations behind the HTTP surface:
// the daily/random pick on the read side and the moderated read-classify-
// append-write cycle on the admin side.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jokeoftheday/jotd/internal/backup"
	"github.com/jokeoftheday/jotd/internal/dedup"
	"github.com/jokeoftheday/jotd/internal/joke"
	"github.com/jokeoftheday/jotd/internal/joke/repository"
	"github.com/jokeoftheday/jotd/internal/pick"
	"github.com/jokeoftheday/jotd/pkg/logger"
	"github.com/jokeoftheday/jotd/pkg/metrics"
)

type Service struct {
	repo     *repository.Repository
	guard    *dedup.Guard
	archiver *backup.Archiver
	loc      *time.Location
	now      func() time.Time
}

// New builds the service. archiver may be nil (backups disabled); loc
// controls the local-midnight boundary of the daily pick.
func New(repo *repository.Repository, guard *dedup.Guard, archiver *backup.Archiver, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, guard: guard, archiver: archiver, loc: loc, now: time.Now}
}

// JokeOfTheDay serves the deterministic pick for today's date in the
// configured time zone: the same filters yield the same joke until local
// midnight, with no stored state.
func (s *Service) JokeOfTheDay(ctx context.Context, criteria joke.Criteria) (joke.Joke, error) {
	pool, err := s.pool(ctx, criteria)
	if err != nil {
		return joke.Joke{}, err
	}
	date := s.now().In(s.loc).Format("2006-01-02")
	seed := pick.Seed(date, criteria.Ratings, criteria.Categories)
	j, err := pick.Deterministic(pool, seed)
	if err != nil {
		return joke.Joke{}, err
	}
	metrics.JokesServed.WithLabelValues("daily").Inc()
	return j, nil
}

// RandomJoke serves a crypto-random pick from the same filtered pool.
func (s *Service) RandomJoke(ctx context.Context, criteria joke.Criteria) (joke.Joke, error) {
	pool, err := s.pool(ctx, criteria)
	if err != nil {
		return joke.Joke{}, err
	}
	j, err := pick.Random(pool)
	if err != nil {
		return joke.Joke{}, err
	}
	metrics.JokesServed.WithLabelValues("random").Inc()
	return j, nil
}

func (s *Service) pool(ctx context.Context, criteria joke.Criteria) ([]joke.Joke, error) {
	doc, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}
	pool := joke.Filter(doc.Jokes, criteria)
	if len(pool) == 0 {
		return nil, &joke.EmptyPoolError{}
	}
	return pool, nil
}

// List returns the full collection plus its version token, for the admin UI.
func (s *Service) List(ctx context.Context) (*repository.Versioned, error) {
	return s.repo.ReadFresh(ctx)
}

// Submission is an admin add request. The id is assigned server-side.
type Submission struct {
	Text     string `json:"text"`
	Rating   string `json:"rating"`
	Category string `json:"category"`
}

// Add runs the moderated write path: fresh read, duplicate classification,
// append, conditional write. A stale version token surfaces as ConflictError
// with no retry — retrying here could mask two admins racing to enter the
// same joke.
func (s *Service) Add(ctx context.Context, sub Submission) (joke.Joke, error) {
	text := strings.TrimSpace(sub.Text)
	if text == "" {
		metrics.Submissions.WithLabelValues("schema_error").Inc()
		return joke.Joke{}, &joke.SchemaError{Reason: "text must be non-empty"}
	}
	if !joke.ValidRating(sub.Rating) {
		metrics.Submissions.WithLabelValues("schema_error").Inc()
		return joke.Joke{}, &joke.SchemaError{Reason: "rating must be one of G, PG, PG-13, R"}
	}

	doc, err := s.repo.ReadFresh(ctx)
	if err != nil {
		metrics.Submissions.WithLabelValues("store_error").Inc()
		return joke.Joke{}, err
	}

	switch res := s.guard.Classify(text, doc.Jokes); res.Verdict {
	case dedup.ExactMatch:
		metrics.Submissions.WithLabelValues("duplicate").Inc()
		return joke.Joke{}, &joke.DuplicateError{Match: res.Match}
	case dedup.Similar:
		metrics.Submissions.WithLabelValues("similar").Inc()
		return joke.Joke{}, &joke.SimilarError{Match: res.Match, Score: res.Score}
	}

	collection, added := repository.Append(doc.Jokes, joke.Joke{
		Text:     text,
		Rating:   strings.ToUpper(strings.TrimSpace(sub.Rating)),
		Category: strings.ToLower(strings.TrimSpace(sub.Category)),
		Active:   true,
	})

	version, err := s.repo.Write(ctx, collection, doc.Version)
	if err != nil {
		if _, ok := err.(*joke.ConflictError); ok {
			metrics.Submissions.WithLabelValues("conflict").Inc()
		} else {
			metrics.Submissions.WithLabelValues("store_error").Inc()
		}
		return joke.Joke{}, err
	}
	metrics.Submissions.WithLabelValues("added").Inc()
	logger.Infof("joke %d added (category=%q rating=%s), version %s", added.ID, added.Category, added.Rating, version)

	if s.archiver != nil {
		if content, err := json.MarshalIndent(collection, "", "  "); err == nil {
			// detached: an aborted admin request must not cancel the upload
			go s.archiver.Snapshot(content, version)
		}
	}
	return added, nil
}
