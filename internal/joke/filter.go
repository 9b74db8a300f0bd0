package joke

import (
	"strings"
	"unicode/utf8"
)

// Filter applies the criteria predicates to jokes, preserving relative order.
// It always returns a non-nil slice; an empty result means "no content", not
// an error. Rating membership is case-insensitive, category membership is
// compared lowercased and trimmed.
func Filter(jokes []Joke, c Criteria) []Joke {
	ratings := make(map[string]struct{}, len(c.Ratings))
	for _, r := range c.Ratings {
		ratings[strings.ToUpper(strings.TrimSpace(r))] = struct{}{}
	}
	var categories map[string]struct{}
	if c.Categories != nil {
		categories = make(map[string]struct{}, len(c.Categories))
		for _, cat := range c.Categories {
			categories[strings.ToLower(strings.TrimSpace(cat))] = struct{}{}
		}
	}

	out := make([]Joke, 0, len(jokes))
	for _, j := range jokes {
		// defensive: a joke with no text cannot be served
		if j.Text == "" {
			continue
		}
		if c.ActiveOnly && !j.Active {
			continue
		}
		if _, ok := ratings[strings.ToUpper(j.Rating)]; !ok {
			continue
		}
		if categories != nil {
			if _, ok := categories[strings.ToLower(strings.TrimSpace(j.Category))]; !ok {
				continue
			}
		}
		if c.MaxDisplayChars > 0 && utf8.RuneCountInString(j.Text) > c.MaxDisplayChars {
			continue
		}
		out = append(out, j)
	}
	return out
}
