package client

import (
	"context"

	"linkcook-go/internal/domain/identity"
)

// TokenSource supplies the bearer token for the session identity. The client
// never obtains or refreshes credentials itself.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Session is the identity the client acts as, as handed over by the
// identity provider.
type Session struct {
	identity identity.Identity
	tokens   TokenSource
}

func NewSession(who identity.Identity, tokens TokenSource) *Session {
	return &Session{identity: who, tokens: tokens}
}

func AnonymousSession() *Session {
	return &Session{identity: identity.Anonymous}
}

func (s *Session) Identity() identity.Identity {
	if s == nil {
		return identity.Anonymous
	}
	return s.identity
}

func (s *Session) IsAuthenticated() bool {
	return s.Identity().IsAuthenticated()
}

func (s *Session) token(ctx context.Context) (string, error) {
	if s == nil || s.tokens == nil {
		return "", nil
	}
	return s.tokens.Token(ctx)
}
