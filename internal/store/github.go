package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GitHubStore reads and writes the joke document through the GitHub contents
// API. The blob SHA is the version token: PUT carries it back unchanged and
// GitHub answers 409 (or 422) when it no longer matches HEAD, which is
// exactly the conditional-replace contract Store requires. Content travels
// base64-encoded both ways.
type GitHubStore struct {
	httpc   *http.Client
	baseURL string
	token   string
	owner   string
	repo    string
	path    string
	branch  string
}

// GitHubConfig holds the coordinates of the backing file.
type GitHubConfig struct {
	BaseURL string // override for tests; default https://api.github.com
	Token   string
	Owner   string
	Repo    string
	Path    string
	Branch  string
}

func NewGitHubStore(cfg GitHubConfig) *GitHubStore {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.github.com"
	}
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	return &GitHubStore{
		httpc:   &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(base, "/"),
		token:   cfg.Token,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		path:    cfg.Path,
		branch:  branch,
	}
}

func (g *GitHubStore) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.baseURL, g.owner, g.repo, g.path)
}

func (g *GitHubStore) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func (g *GitHubStore) Read(ctx context.Context) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.contentsURL()+"?ref="+g.branch, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: contents GET returned %d", ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding contents response: %v", ErrUnavailable, err)
	}
	// GitHub wraps base64 at 60 columns; strip the newlines before decoding.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: base64 decode: %v", ErrUnavailable, err)
	}
	return &Document{Content: raw, Version: body.SHA}, nil
}

func (g *GitHubStore) Write(ctx context.Context, content []byte, expectedVersion string) (string, error) {
	payload := map[string]string{
		"message": "Update jokes",
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  g.branch,
	}
	if expectedVersion != "" {
		payload["sha"] = expectedVersion
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(), bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := g.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		io.Copy(io.Discard, resp.Body)
		return "", ErrConflict
	default:
		return "", fmt.Errorf("%w: contents PUT returned %d", ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		Content struct {
			SHA string `json:"sha"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decoding commit response: %v", ErrUnavailable, err)
	}
	return body.Content.SHA, nil
}
