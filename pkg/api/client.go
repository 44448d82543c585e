package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"blogclient/pkg/blog"
	"blogclient/pkg/user"
)

// TokenSource supplies the bearer token at call time; the session store
// implements it.
type TokenSource interface {
	Token() string
}

// Client speaks the blog REST API. It implements blog.Remote and
// user.Remote.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenSource
	Logger  *slog.Logger
}

func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Tokens:  tokens,
		Logger:  logger,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Access string `json:"access"`
}

var errNoAccessToken = errors.New("login response carries no access token")

// Login exchanges credentials for a bearer token. The token is returned
// opaque; nothing client-side inspects it.
func (c *Client) Login(ctx context.Context, identifier, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/users/login", loginRequest{Identifier: identifier, Password: password}, "", &resp)
	if err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", errNoAccessToken
	}
	return resp.Access, nil
}

func (c *Client) Register(ctx context.Context, form user.RegisterForm) error {
	return c.do(ctx, http.MethodPost, "/users/register", form, "", nil)
}

var errMalformedProfile = errors.New("profile payload missing _id")

// Details fetches the profile for an explicit token, which may not be in
// the session store yet during the login handshake.
func (c *Client) Details(ctx context.Context, token string) (*user.Profile, error) {
	var p user.Profile
	if err := c.do(ctx, http.MethodGet, "/users/details", nil, token, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, errMalformedProfile
	}
	return &p, nil
}

func (c *Client) AllPosts(ctx context.Context) ([]*blog.Post, error) {
	var posts []*blog.Post
	if err := c.do(ctx, http.MethodGet, "/posts/allPosts", nil, "", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) PostByID(ctx context.Context, postID string) (*blog.Post, error) {
	var p blog.Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+postID, nil, "", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type addPostRequest struct {
	Title string `json:"title"`
	Blog  string `json:"blog"`
}

func (c *Client) AddPost(ctx context.Context, title, body string) (*blog.Post, error) {
	var p blog.Post
	err := c.do(ctx, http.MethodPost, "/posts/addPost", addPostRequest{Title: title, Blog: body}, c.bearer(), &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+postID, nil, c.bearer(), nil)
}

type addCommentRequest struct {
	Comment string `json:"comment"`
}

func (c *Client) AddComment(ctx context.Context, postID, comment string) (*blog.Post, error) {
	var p blog.Post
	err := c.do(ctx, http.MethodPost, "/posts/"+postID+"/comments", addCommentRequest{Comment: comment}, c.bearer(), &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) (*blog.Post, error) {
	var p blog.Post
	err := c.do(ctx, http.MethodDelete, "/posts/"+postID+"/comments/"+commentID, nil, c.bearer(), &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) bearer() string {
	if c.Tokens == nil {
		return ""
	}
	return c.Tokens.Token()
}

func (c *Client) do(ctx context.Context, method, path string, body any, bearer string, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 400 {
		err := errorFromStatus(resp.StatusCode, messageFrom(raw))
		c.Logger.Error("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return err
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// messageFrom pulls the optional {"message": ...} out of an error body. A
// missing or non-JSON body is treated as an empty object.
func messageFrom(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return body.Message
}
