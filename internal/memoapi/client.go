// Package memoapi is the HTTP client for the memo message backend.
package memoapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/ras0q/lazymemo/internal/logging"
	"github.com/ras0q/lazymemo/internal/timeline"
	"github.com/rs/zerolog"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_token"

const maxResponseBytes = 4 << 20

// SessionSource provides the session token attached to every request.
type SessionSource interface {
	SessionToken(ctx context.Context) (string, error)
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    SessionSource
	logger     zerolog.Logger
}

type Option func(*Client)

func WithClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, session SessionSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url (%s): %w", baseURL, err)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		session:    session,
		logger:     logging.Component("memoapi"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ListMessages returns the full ordered collection.
func (c *Client) ListMessages(ctx context.Context) ([]timeline.Message, error) {
	res, err := c.do(ctx, request{
		op:       "list messages",
		method:   http.MethodGet,
		path:     "/api/messages",
		fallback: FallbackLoad,
	})
	if err != nil {
		return nil, err
	}

	messages, err := decodeMessageList(res.body)
	if err != nil {
		return nil, &NetworkFailure{Op: "list messages", Err: err}
	}

	return messages, nil
}

func (c *Client) CreateMessage(ctx context.Context, body string) (timeline.Message, error) {
	if body == "" {
		return timeline.Message{}, ErrValidationRejected
	}

	res, err := c.do(ctx, request{
		op:       "create message",
		method:   http.MethodPost,
		path:     "/api/messages",
		body:     encodeBody(body),
		fallback: FallbackSend,
	})
	if err != nil {
		return timeline.Message{}, err
	}

	return c.decodeMutation("create message", res.body)
}

func (c *Client) UpdateMessage(ctx context.Context, id timeline.MessageID, body string) (timeline.Message, error) {
	if body == "" {
		return timeline.Message{}, ErrValidationRejected
	}

	res, err := c.do(ctx, request{
		op:       "update message",
		method:   http.MethodPut,
		path:     messagePath(id),
		body:     encodeBody(body),
		fallback: FallbackUpdate,
	})
	if err != nil {
		return timeline.Message{}, err
	}

	return c.decodeMutation("update message", res.body)
}

func (c *Client) DeleteMessage(ctx context.Context, id timeline.MessageID) error {
	_, err := c.do(ctx, request{
		op:       "delete message",
		method:   http.MethodDelete,
		path:     messagePath(id),
		fallback: FallbackDelete,
	})

	return err
}

func (c *Client) Me(ctx context.Context) (User, error) {
	res, err := c.do(ctx, request{
		op:       "get me",
		method:   http.MethodGet,
		path:     "/api/me",
		fallback: FallbackMe,
	})
	if err != nil {
		return User{}, err
	}

	user, err := decodeUser(res.body)
	if err != nil {
		return User{}, &NetworkFailure{Op: "get me", Err: err}
	}

	return user, nil
}

// Login exchanges credentials for a session token. A 401 here is a
// rejected login, not an expired session.
func (c *Client) Login(ctx context.Context, username, password string) (User, string, error) {
	res, err := c.do(ctx, request{
		op:          "login",
		method:      http.MethodPost,
		path:        "/api/login",
		body:        encodeCredentials(username, password),
		fallback:    FallbackLogin,
		anonymous:   true,
		cookiesFrom: true,
	})
	if err != nil {
		return User{}, "", err
	}

	user, err := decodeUser(res.body)
	if err != nil {
		return User{}, "", &NetworkFailure{Op: "login", Err: err}
	}

	for _, cookie := range res.cookies {
		if cookie.Name == SessionCookieName && cookie.Value != "" {
			return user, cookie.Value, nil
		}
	}

	return User{}, "", &ServerRejected{Op: "login", StatusCode: res.status, Message: "no session in response"}
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, request{
		op:       "logout",
		method:   http.MethodPost,
		path:     "/api/logout",
		fallback: FallbackLogout,
	})

	return err
}

// Health probes the backend and returns its status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	res, err := c.do(ctx, request{
		op:        "health",
		method:    http.MethodGet,
		path:      "/api/health",
		fallback:  FallbackHealth,
		anonymous: true,
	})
	if err != nil {
		return "", err
	}

	return decodeStatus(res.body)
}

type request struct {
	op       string
	method   string
	path     string
	body     []byte
	fallback string

	// anonymous requests carry no session and treat 401 as a rejection
	anonymous   bool
	cookiesFrom bool
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (c *Client) do(ctx context.Context, r request) (*response, error) {
	requestID := uuid.New()
	start := time.Now()
	base := c.logger
	if scoped, ok := logging.FromContext(ctx); ok {
		base = scoped.With().Str("component", "memoapi").Logger()
	}

	logger := base.With().
		Str("op", r.op).
		Str("method", r.method).
		Str("path", r.path).
		Str("request_id", requestID.String()).
		Logger()

	var reqBody io.Reader
	if r.body != nil {
		reqBody = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL.String()+r.path, reqBody)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", r.op)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID.String())
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !r.anonymous && c.session != nil {
		token, err := c.session.SessionToken(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: get session token", r.op)
		}

		if token != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return nil, &NetworkFailure{Op: r.op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkFailure{Op: r.op, Err: errors.Wrap(err, "read response")}
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	if resp.StatusCode == http.StatusUnauthorized && !r.anonymous {
		return nil, errors.Wrap(ErrAuthExpired, r.op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerRejected{
			Op:         r.op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, r.fallback),
		}
	}

	res := &response{
		status: resp.StatusCode,
		body:   body,
	}
	if r.cookiesFrom {
		res.cookies = resp.Cookies()
	}

	return res, nil
}

func (c *Client) decodeMutation(op string, body []byte) (timeline.Message, error) {
	m, err := decodeSingleMessage(body)
	if err != nil {
		return timeline.Message{}, &NetworkFailure{Op: op, Err: err}
	}

	return m, nil
}

func messagePath(id timeline.MessageID) string {
	return "/api/messages/" + strconv.FormatInt(int64(id), 10)
}
