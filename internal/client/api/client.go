// Package api implements the REST client for the gallery server. The session
// cookie set by login is kept in the client's cookie jar and sent on every
// subsequent request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// User mirrors the server's user payload. Posts holds post IDs, most recent
// first.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Posts     []string  `json:"posts"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post mirrors the server's post payload.
type Post struct {
	ID        string    `json:"id"`
	Caption   string    `json:"caption"`
	Image     Image     `json:"image"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user"`
	Posts   []Post `json:"posts"`
}

// APIError is a failure envelope decoded from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	base string
	http *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	env, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", body)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", body)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodGet, "/api/v1/auth/logout", nil)
	return err
}

// Me returns the authenticated user and their posts in gallery order.
func (c *Client) Me(ctx context.Context) (*User, []Post, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/api/v1/me", nil)
	if err != nil {
		return nil, nil, err
	}
	return env.User, env.Posts, nil
}

// CreatePost uploads an image with an optional caption as a multipart form.
func (c *Client) CreatePost(ctx context.Context, caption, filename string, image io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, image); err != nil {
		return err
	}
	if err := mw.WriteField("caption", caption); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v1/post/create", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = c.do(req)
	return err
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/api/v1/post/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) SearchPosts(ctx context.Context, title string) ([]Post, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/api/v1/posts/search?title="+url.QueryEscape(title), nil)
	if err != nil {
		return nil, err
	}
	return env.Posts, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	env := &envelope{}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	return env, nil
}
