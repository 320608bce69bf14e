package memoapiext

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/motoki317/sc"
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/ras0q/lazymemo/internal/timeline"
)

// Options tunes the client and its response caches.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	FreshFor time.Duration
	TTL      time.Duration
}

type Context struct {
	apiHost string
	client  *memoapi.Client

	Messages *sc.Cache[struct{}, []timeline.Message]
	Me       *sc.Cache[struct{}, memoapi.User]
}

func NewContext(opts Options, sessionSource *SessionSource) (*Context, error) {
	c := new(Context)
	if err := c.SwitchHost(opts, sessionSource); err != nil {
		return nil, fmt.Errorf("switch host: %w", err)
	}

	return c, nil
}

func (c *Context) SwitchHost(opts Options, sessionSource *SessionSource) error {
	httpClient := &http.Client{Timeout: opts.Timeout}
	memoClient, err := memoapi.NewClient(
		opts.BaseURL,
		sessionSource,
		memoapi.WithClient(httpClient),
	)
	if err != nil {
		return fmt.Errorf("create memo client: %w", err)
	}

	c.apiHost = opts.BaseURL
	c.client = memoClient

	c.Messages, err = newMessagesStore(memoClient, opts.FreshFor, opts.TTL)
	if err != nil {
		return fmt.Errorf("create messages store: %w", err)
	}

	c.Me, err = newMeStore(memoClient, opts.FreshFor, opts.TTL)
	if err != nil {
		return fmt.Errorf("create me store: %w", err)
	}

	return nil
}

func (c *Context) APIHost() string {
	return c.apiHost
}

// Client exposes the uncached client for login and health checks.
func (c *Context) Client() *memoapi.Client {
	return c.client
}

// LoadMessages returns the collection, served from the cache while it is
// fresh. A fresh session should call Invalidate first so the load hits the
// backend. Cancelling ctx aborts the request.
func (c *Context) LoadMessages(ctx context.Context) ([]timeline.Message, error) {
	return c.Messages.Get(withCaller(ctx), struct{}{})
}

func (c *Context) CurrentUser(ctx context.Context) (memoapi.User, error) {
	return c.Me.Get(withCaller(ctx), struct{}{})
}

func (c *Context) CreateMessage(ctx context.Context, body string) (timeline.Message, error) {
	m, err := c.client.CreateMessage(ctx, body)
	if err != nil {
		return timeline.Message{}, fmt.Errorf("create message: %w", err)
	}

	c.Messages.Forget(struct{}{})

	return m, nil
}

func (c *Context) UpdateMessage(ctx context.Context, id timeline.MessageID, body string) (timeline.Message, error) {
	m, err := c.client.UpdateMessage(ctx, id, body)
	if err != nil {
		return timeline.Message{}, fmt.Errorf("update message %d: %w", id, err)
	}

	c.Messages.Forget(struct{}{})

	return m, nil
}

func (c *Context) DeleteMessage(ctx context.Context, id timeline.MessageID) error {
	if err := c.client.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}

	c.Messages.Forget(struct{}{})

	return nil
}

// Invalidate drops every cached response.
func (c *Context) Invalidate() {
	c.Messages.Forget(struct{}{})
	c.Me.Forget(struct{}{})
}

type callerKey struct{}

// sc hands loaders a context detached from cancellation. The caller's own
// context travels as a value so the request still ends with its session.
func withCaller(ctx context.Context) context.Context {
	return context.WithValue(ctx, callerKey{}, ctx)
}

func callerContext(ctx context.Context) context.Context {
	if caller, ok := ctx.Value(callerKey{}).(context.Context); ok {
		return caller
	}

	return ctx
}

func wrapf(errp *error, format string, args ...any) {
	if *errp != nil {
		*errp = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), *errp)
	}
}

func newMessagesStore(client *memoapi.Client, freshFor, ttl time.Duration) (*sc.Cache[struct{}, []timeline.Message], error) {
	return sc.New(func(ctx context.Context, _ struct{}) (messages []timeline.Message, err error) {
		defer wrapf(&err, "get messages")

		return client.ListMessages(callerContext(ctx))
	}, freshFor, ttl)
}

func newMeStore(client *memoapi.Client, freshFor, ttl time.Duration) (*sc.Cache[struct{}, memoapi.User], error) {
	return sc.New(func(ctx context.Context, _ struct{}) (me memoapi.User, err error) {
		defer wrapf(&err, "get me")

		return client.Me(callerContext(ctx))
	}, freshFor, ttl)
}
