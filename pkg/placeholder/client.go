// Package placeholder is a thin client over the JSONPlaceholder REST API.
// Payloads are passed through as JSON text.
package placeholder

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samvad-hq/jsonplaceholder-client/pkg/httpclient"
)

// DefaultBaseURL is the public JSONPlaceholder endpoint.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

var jsonHeaders = map[string]string{
	"Content-Type": "application/json; charset=utf-8",
	"Accept":       "application/json",
}

// Options configures a Client.
type Options struct {
	// TrimResponseLines trims every response line and joins them without
	// separators, matching legacy clients that read bodies line by line.
	TrimResponseLines bool
}

// Client issues requests against a single upstream service.
type Client struct {
	http HTTPClient
	opts Options
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within this package.
type HTTPClient = httpclient.Client

// New wraps an HTTP client whose base URL already points at the upstream service.
func New(client HTTPClient, opts Options) (*Client, error) {
	if client == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}
	return &Client{http: client, opts: opts}, nil
}

// NewWithBaseURL builds a resty-backed Client for baseURL.
func NewWithBaseURL(baseURL string, timeout time.Duration, opts Options) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpclient.NewRestyClient(baseURL, timeout), opts: opts}
}

// CreateUser posts a JSON user object to /users.
func (c *Client) CreateUser(ctx context.Context, userJSON string) (string, error) {
	return c.send(ctx, http.MethodPost, "/users", nil, &userJSON)
}

// UpdateUser replaces the user with the given id.
func (c *Client) UpdateUser(ctx context.Context, id int, userJSON string) (string, error) {
	return c.send(ctx, http.MethodPut, userPath(id), nil, &userJSON)
}

// DeleteUser deletes the user with the given id and returns the response text.
func (c *Client) DeleteUser(ctx context.Context, id int) (string, error) {
	return c.send(ctx, http.MethodDelete, userPath(id), nil, nil)
}

// ListUsers returns every user.
func (c *Client) ListUsers(ctx context.Context) (string, error) {
	return c.send(ctx, http.MethodGet, "/users", nil, nil)
}

// GetUser returns one user by id.
func (c *Client) GetUser(ctx context.Context, id int) (string, error) {
	return c.send(ctx, http.MethodGet, userPath(id), nil, nil)
}

// GetUserByUsername returns the (array-wrapped) users matching username.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (string, error) {
	return c.send(ctx, http.MethodGet, "/users", map[string]string{"username": username}, nil)
}

// ListUserPosts returns the posts written by the user.
func (c *Client) ListUserPosts(ctx context.Context, userID int) (string, error) {
	return c.send(ctx, http.MethodGet, userPath(userID)+"/posts", nil, nil)
}

// ListPostComments returns the comments attached to the post.
func (c *Client) ListPostComments(ctx context.Context, postID int) (string, error) {
	return c.send(ctx, http.MethodGet, "/posts/"+strconv.Itoa(postID)+"/comments", nil, nil)
}

// ListUserTodos returns the user's todos.
func (c *Client) ListUserTodos(ctx context.Context, userID int) (string, error) {
	return c.send(ctx, http.MethodGet, userPath(userID)+"/todos", nil, nil)
}

func userPath(id int) string {
	return "/users/" + strconv.Itoa(id)
}

// send performs one request and returns the full response body as text.
// A nil body sends no payload. Non-2xx responses are errors.
func (c *Client) send(ctx context.Context, method, path string, query map[string]string, body *string) (string, error) {
	if c == nil || c.http == nil {
		return "", fmt.Errorf("placeholder client is not initialized")
	}

	req := httpclient.Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Headers: jsonHeaders,
	}
	if body != nil {
		req.Body = []byte(*body)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !httpclient.IsSuccess(resp.StatusCode()) {
		return "", fmt.Errorf("%s %s: %w %d: %s", method, path, httpclient.ErrUnexpectedStatus,
			resp.StatusCode(), httpclient.Snippet(resp.Body(), resp.ContentType()))
	}

	text := string(resp.Body())
	if c.opts.TrimResponseLines {
		text = trimLines(text)
	}
	return text, nil
}

// trimLines strips surrounding whitespace from every line and concatenates
// the results.
func trimLines(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}
