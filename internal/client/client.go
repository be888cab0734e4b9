// Package client is the consumer side of the service: a REST client that
// checks identity, ownership and closure locally before issuing requests
// and adopts the server snapshot after every mutation.
package client

import (
	"context"
	"net/http"
	"time"

	"linkcook-go/internal/api"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	rest    *REST
	session *Session
	guard   *inflight
	now     func() time.Time

	GroupBuys *GroupBuys
	Recipes   *Recipes
	Shares    *Shares
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	now        func() time.Time
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithClock replaces the clock used for local closure checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New(baseURL string, session *Session, opts ...Option) *Client {
	o := options{
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if session == nil {
		session = AnonymousSession()
	}

	c := &Client{
		rest:    NewREST(baseURL, o.httpClient, session),
		session: session,
		guard:   newInflight(),
		now:     o.now,
	}
	c.GroupBuys = &GroupBuys{c: c}
	c.Recipes = &Recipes{c: c}
	c.Shares = &Shares{c: c}
	return c
}

func (c *Client) REST() *REST {
	return c.rest
}

func (c *Client) Health(ctx context.Context) error {
	return c.rest.Get(ctx, "/api/health", nil)
}

// Me returns the identity the server resolved for the session token.
func (c *Client) Me(ctx context.Context) (api.Me, error) {
	var me api.Me
	if err := c.requireIdentity(); err != nil {
		return me, err
	}
	err := c.rest.Get(ctx, "/api/auth/me", &me)
	return me, err
}

// Activity returns the signed-in user's summary counts.
func (c *Client) Activity(ctx context.Context) (api.Activity, error) {
	var activity api.Activity
	if err := c.requireIdentity(); err != nil {
		return activity, err
	}
	err := c.rest.Get(ctx, "/api/me/activity", &activity)
	return activity, err
}

func (c *Client) requireIdentity() error {
	if !c.session.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

func confirm(ctx context.Context, confirmer Confirmer, prompt string) error {
	if confirmer == nil {
		return ErrCancelled
	}
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return &Error{Kind: KindCancelled, Message: "confirmation failed", Err: err}
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
