package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jokeoftheday/jotd/internal/joke"
	"github.com/jokeoftheday/jotd/internal/joke/service"
	"github.com/jokeoftheday/jotd/pkg/middleware"
)

// JokesHandler owns the public read endpoints and the moderated admin write
// path. This is the only layer that maps the domain error taxonomy onto HTTP
// status codes.
type JokesHandler struct {
	svc            *service.Service
	defaultRatings []string
}

func NewJokesHandler(svc *service.Service, defaultRatings []string) *JokesHandler {
	if len(defaultRatings) == 0 {
		defaultRatings = []string{joke.RatingG, joke.RatingPG}
	}
	return &JokesHandler{svc: svc, defaultRatings: defaultRatings}
}

// Register mounts the public routes and, when a verifier is supplied, the
// admin routes behind bearer auth.
func (h *JokesHandler) Register(r *gin.Engine, ver middleware.Verifier) {
	api := r.Group("/api/v1")
	api.GET("/joke", h.JokeOfTheDay)
	api.GET("/joke/random", h.RandomJoke)

	admin := api.Group("/jokes")
	if ver != nil {
		admin.Use(middleware.AuthMiddleware(ver))
	}
	admin.GET("", h.List)
	admin.POST("", h.Add)
}

// criteria parses the public filter query params: ratings, categories,
// maxChars. Absent ratings fall back to the configured default; the public
// path always serves active jokes only.
func (h *JokesHandler) criteria(c *gin.Context) joke.Criteria {
	crit := joke.Criteria{Ratings: h.defaultRatings, ActiveOnly: true}
	if v := c.Query("ratings"); v != "" {
		crit.Ratings = splitParam(v)
	}
	if v := c.Query("categories"); v != "" {
		crit.Categories = splitParam(v)
	}
	if v := c.Query("maxChars"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			crit.MaxDisplayChars = n
		}
	}
	return crit
}

func splitParam(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (h *JokesHandler) JokeOfTheDay(c *gin.Context) {
	j, err := h.svc.JokeOfTheDay(c.Request.Context(), h.criteria(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"joke": j})
}

func (h *JokesHandler) RandomJoke(c *gin.Context) {
	j, err := h.svc.RandomJoke(c.Request.Context(), h.criteria(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"joke": j})
}

func (h *JokesHandler) List(c *gin.Context) {
	doc, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jokes": doc.Jokes, "version": doc.Version})
}

func (h *JokesHandler) Add(c *gin.Context) {
	var sub service.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	j, err := h.svc.Add(c.Request.Context(), sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"joke": j})
}

// respondError maps domain errors to transport codes:
// submission schema errors 400, stored-document corruption 500, duplicate/
// similar/conflict 409, empty pool 404, store unavailable 503.
func respondError(c *gin.Context, err error) {
	var (
		schemaErr   *joke.SchemaError
		conflictErr *joke.ConflictError
		unavailErr  *joke.StoreUnavailableError
		emptyErr    *joke.EmptyPoolError
		dupErr      *joke.DuplicateError
		similarErr  *joke.SimilarError
	)
	switch {
	case errors.As(err, &dupErr):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate", "match": dupErr.Match})
	case errors.As(err, &similarErr):
		c.JSON(http.StatusConflict, gin.H{"error": "too_similar", "match": similarErr.Match, "score": similarErr.Score})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": "version_conflict", "details": "collection changed underneath you; re-read and resubmit"})
	case errors.As(err, &emptyErr):
		c.JSON(http.StatusNotFound, gin.H{"error": "no_jokes_match"})
	case errors.As(err, &unavailErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store_unavailable"})
	case errors.As(err, &schemaErr):
		if schemaErr.Stored {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "corrupt_document", "details": schemaErr.Reason})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_submission", "details": schemaErr.Reason})
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
