package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"linkcook-go/internal/api"
	"linkcook-go/internal/config"
	"linkcook-go/internal/domain/identity"
	"linkcook-go/pkg/logger"
)

var ErrInvalidToken = errors.New("invalid token")

type contextKey int

const identityKey contextKey = iota

// Authenticator turns a bearer token into the caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Identity, error)
}

type ProfileSaver interface {
	UpsertProfile(ctx context.Context, who identity.Identity) error
}

type tokenClaims struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// JWTAuthenticator validates signed access tokens against a key source.
type JWTAuthenticator struct {
	keyfunc  jwt.Keyfunc
	issuer   string
	audience string
	methods  []string
}

// NewJWTAuthenticator accepts RS256 tokens unless other signing methods are
// listed. Empty issuer or audience skip that check.
func NewJWTAuthenticator(keyfunc jwt.Keyfunc, issuer, audience string, methods ...string) *JWTAuthenticator {
	if len(methods) == 0 {
		methods = []string{jwt.SigningMethodRS256.Alg()}
	}
	return &JWTAuthenticator{
		keyfunc:  keyfunc,
		issuer:   issuer,
		audience: audience,
		methods:  methods,
	}
}

// NewAuth0Authenticator fetches the tenant JWKS and keeps it refreshed in
// the background until ctx is done.
func NewAuth0Authenticator(ctx context.Context, cfg config.AuthConfig) (*JWTAuthenticator, error) {
	jwksURL := cfg.JWKSURL()
	if jwksURL == "" {
		return nil, fmt.Errorf("auth0 domain is not configured")
	}
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}
	return NewJWTAuthenticator(jwks.Keyfunc, cfg.Issuer(), cfg.Audience), nil
}

func (a *JWTAuthenticator) Authenticate(_ context.Context, token string) (identity.Identity, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods(a.methods),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		options = append(options, jwt.WithAudience(a.audience))
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, a.keyfunc, options...)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return identity.Identity{}, ErrInvalidToken
	}

	return identity.Identity{
		ID:          claims.Subject,
		DisplayName: firstNonEmpty(claims.Name, claims.Nickname),
		Email:       claims.Email,
	}, nil
}

// Auth resolves the caller identity for each request. With SkipAuth set
// every request runs as the configured mock user.
type Auth struct {
	authenticator Authenticator
	profiles      ProfileSaver
	log           logger.Logger
	skipAuth      bool
	mockUser      identity.Identity
}

func NewAuth(cfg config.AuthConfig, authenticator Authenticator, profiles ProfileSaver, log logger.Logger) *Auth {
	return &Auth{
		authenticator: authenticator,
		profiles:      profiles,
		log:           log,
		skipAuth:      cfg.SkipAuth,
		mockUser: identity.Identity{
			ID:          strings.TrimSpace(cfg.MockUserID),
			DisplayName: strings.TrimSpace(cfg.MockUserName),
			Email:       strings.TrimSpace(cfg.MockUserEmail),
		},
	}
}

// Required rejects requests without a valid identity.
func (a *Auth) Required(next http.Handler) http.Handler {
	return a.handle(next, true)
}

// Optional lets anonymous requests through. A malformed or expired token is
// still rejected.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return a.handle(next, false)
}

func (a *Auth) handle(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.saveProfile(r.Context(), a.mockUser)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), a.mockUser)))
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" && !required {
			next.ServeHTTP(w, r)
			return
		}
		if a.authenticator == nil {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			unauthorized(w)
			return
		}

		who, err := a.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err, "path", r.URL.Path)
			unauthorized(w)
			return
		}

		a.saveProfile(r.Context(), who)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), who)))
	})
}

func (a *Auth) saveProfile(ctx context.Context, who identity.Identity) {
	if a.profiles == nil {
		return
	}
	if err := a.profiles.UpsertProfile(ctx, who); err != nil {
		a.log.InternalError("auth: upsert profile failed", err, "user_id", who.ID)
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, api.CodeUnauthenticated, "invalid token")
}

func WithIdentity(ctx context.Context, who identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, who)
}

// IdentityFromContext returns the caller, or Anonymous with false when the
// request carried no identity.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	who, ok := ctx.Value(identityKey).(identity.Identity)
	if !ok || !who.IsAuthenticated() {
		return identity.Anonymous, false
	}
	return who, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Envelope{Success: false, Code: code, Message: message})
}
