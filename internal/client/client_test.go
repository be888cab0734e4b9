package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcook-go/internal/api"
	"linkcook-go/internal/app"
	"linkcook-go/internal/client"
	"linkcook-go/internal/config"
	"linkcook-go/internal/db/dbtest"
	"linkcook-go/internal/domain/groupbuy"
	"linkcook-go/internal/domain/identity"
	"linkcook-go/internal/repository/inmemory"
	"linkcook-go/internal/transport/httpserver/live"
	authmw "linkcook-go/internal/transport/httpserver/middleware"
	"linkcook-go/pkg/logger"
)

var signingKey = []byte("client-test-key")

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// recorder counts the requests a client sends.
type recorder struct {
	mu       sync.Mutex
	base     http.RoundTripper
	requests []string
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req.Method+" "+req.URL.Path)
	r.mu.Unlock()
	return r.base.RoundTrip(req)
}

func (r *recorder) Requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.requests...)
}

func (r *recorder) Count(request string) int {
	n := 0
	for _, seen := range r.Requests() {
		if seen == request {
			n++
		}
	}
	return n
}

type env struct {
	t           *testing.T
	srv         *httptest.Server
	serverClock *clock
	clientClock *clock
}

func newEnv(t *testing.T) *env {
	t.Helper()

	start := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	e := &env{t: t, serverClock: &clock{now: start}, clientClock: &clock{now: start}}
	keyfunc := func(*jwt.Token) (any, error) { return signingKey, nil }

	router := app.NewRouter(app.Deps{
		Config:        config.Config{LiveEnabled: true, Cache: config.CacheConfig{TTL: time.Minute}},
		DB:            dbtest.NewSQLite(t),
		Cache:         inmemory.NewInMemoryGroupBuyCache(),
		Authenticator: authmw.NewJWTAuthenticator(keyfunc, "", "", jwt.SigningMethodHS256.Alg()),
		Log:           logger.Discard(),
		Clock:         e.serverClock.Now,
	})
	e.srv = httptest.NewServer(router)
	t.Cleanup(e.srv.Close)
	return e
}

// client returns a client acting as sub, or anonymously when sub is empty.
func (e *env) client(sub, name string) (*client.Client, *recorder) {
	e.t.Helper()

	session := client.AnonymousSession()
	if sub != "" {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  sub,
			"name": name,
			"exp":  time.Now().Add(time.Hour).Unix(),
		}).SignedString(signingKey)
		require.NoError(e.t, err)
		session = client.NewSession(identity.Identity{ID: sub, DisplayName: name}, client.StaticToken(signed))
	}

	rec := &recorder{base: e.srv.Client().Transport}
	c := client.New(e.srv.URL, session,
		client.WithHTTPClient(&http.Client{Transport: rec, Timeout: 5 * time.Second}),
		client.WithClock(e.clientClock.Now),
	)
	return c, rec
}

func createForm(capacity string) client.CreateForm {
	return client.CreateForm{
		Title:         "Jeju tangerines",
		Item:          "tangerine box",
		Description:   "5kg boxes",
		TotalQuantity: capacity,
		PricePerUnit:  "12000",
		Deadline:      "2026-10-25",
		Region:        "Mapo",
	}
}

func ptr(value string) *string { return &value }

func TestJoinScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("4"))
	require.NoError(t, err)

	for i, sub := range []string{"auth0|a", "auth0|b", "auth0|c", "auth0|d"} {
		member, _ := e.client(sub, "")
		joined, err := member.GroupBuys.Join(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, joined.Participants, i+1)
		assert.Equal(t, (i+1)*25, groupbuy.ProgressPercent(joined))
		assert.Equal(t, i == 3, groupbuy.IsClosed(joined, e.clientClock.Now()))
	}

	late, rec := e.client("auth0|e", "")
	_, err = late.GroupBuys.Join(ctx, created.ID)
	require.ErrorIs(t, err, client.ErrAlreadyClosed)
	assert.False(t, client.Retryable(err))
	assert.Zero(t, rec.Count("POST /api/groupbuy/"+created.ID+"/join"), "closed purchases are rejected locally")

	current, err := late.GroupBuys.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, current.ParticipantCount)
	assert.Equal(t, 100, current.ProgressPercent)
}

func TestJoinPastDeadline(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("10"))
	require.NoError(t, err)

	afterDeadline := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	e.serverClock.Set(afterDeadline)
	e.clientClock.Set(afterDeadline)

	member, rec := e.client("auth0|a", "")
	_, err = member.GroupBuys.Join(ctx, created.ID)
	require.ErrorIs(t, err, client.ErrAlreadyClosed)
	assert.Equal(t, []string{"GET /api/groupbuy/" + created.ID}, rec.Requests())
}

func TestJoinByMemberAfterDeadlineIsClosed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("10"))
	require.NoError(t, err)

	member, rec := e.client("auth0|a", "")
	_, err = member.GroupBuys.Join(ctx, created.ID)
	require.NoError(t, err)

	afterDeadline := time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)
	e.serverClock.Set(afterDeadline)
	e.clientClock.Set(afterDeadline)

	_, err = member.GroupBuys.Join(ctx, created.ID)
	require.ErrorIs(t, err, client.ErrAlreadyClosed)
	assert.Equal(t, 1, rec.Count("POST /api/groupbuy/"+created.ID+"/join"), "the second join must not reach the server")
}

func TestJoinServerRejectionIsFinal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("10"))
	require.NoError(t, err)

	// The client still believes the purchase is open.
	e.serverClock.Set(time.Date(2026, 10, 27, 0, 0, 0, 0, time.UTC))

	member, rec := e.client("auth0|a", "")
	_, err = member.GroupBuys.Join(ctx, created.ID)
	require.ErrorIs(t, err, client.ErrAlreadyClosed)

	var clientErr *client.Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusConflict, clientErr.Status)
	assert.Equal(t, api.CodeAlreadyClosed, clientErr.Code)
	assert.Equal(t, 1, rec.Count("POST /api/groupbuy/"+created.ID+"/join"))
}

func TestJoinTwiceIsNoop(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("4"))
	require.NoError(t, err)

	member, rec := e.client("auth0|a", "")
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := member.GroupBuys.Join(ctx, created.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	again, err := member.GroupBuys.Join(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.ParticipantCount)
	assert.Equal(t, 1, rec.Count("POST /api/groupbuy/"+created.ID+"/join"))
}

func TestJoinRequiresIdentity(t *testing.T) {
	e := newEnv(t)

	anonymous, rec := e.client("", "")
	_, err := anonymous.GroupBuys.Join(context.Background(), "any")
	require.ErrorIs(t, err, client.ErrUnauthenticated)
	assert.Equal(t, "login required", err.Error())
	assert.Empty(t, rec.Requests())
}

func TestBookmarkToggle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("4"))
	require.NoError(t, err)

	b, _ := e.client("auth0|b", "")
	first, err := b.GroupBuys.Bookmark(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, api.Toggle{IsMember: true, Count: 1}, first)

	second, err := b.GroupBuys.Bookmark(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, api.Toggle{IsMember: false, Count: 0}, second)

	_, err = b.GroupBuys.Bookmark(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestEditByNonOwnerSendsNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("4"))
	require.NoError(t, err)

	// Same display name, different identity.
	other, rec := e.client("auth0|other", "Owner")
	assert.False(t, other.GroupBuys.CanMutate(created))

	_, err = other.GroupBuys.Edit(ctx, created, client.EditForm{Title: ptr("mine now")})
	require.ErrorIs(t, err, client.ErrForbidden)
	err = other.GroupBuys.Delete(ctx, created, client.AlwaysConfirm)
	require.ErrorIs(t, err, client.ErrForbidden)
	assert.Empty(t, rec.Requests())

	current, err := owner.GroupBuys.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jeju tangerines", current.Title)
	assert.Equal(t, created.Version, current.Version)
}

func TestEditCoercesNumbers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, rec := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("4"))
	require.NoError(t, err)
	assert.True(t, owner.GroupBuys.CanMutate(created))

	updated, err := owner.GroupBuys.Edit(ctx, created, client.EditForm{
		Description:   ptr(""),
		TotalQuantity: ptr(""),
		PricePerUnit:  ptr(" 15000 "),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), updated.PricePerUnit)
	assert.Equal(t, 4, updated.TotalQuantity)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, "Jeju tangerines", updated.Title)
	assert.Greater(t, updated.Version, created.Version)

	before := len(rec.Requests())
	_, err = owner.GroupBuys.Edit(ctx, updated, client.EditForm{TotalQuantity: ptr("many")})
	require.ErrorIs(t, err, client.ErrValidation)
	unchanged, err := owner.GroupBuys.Edit(ctx, updated, client.EditForm{TotalQuantity: ptr(" ")})
	require.NoError(t, err)
	assert.Equal(t, updated.Version, unchanged.Version)
	assert.Len(t, rec.Requests(), before)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, rec := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("4"))
	require.NoError(t, err)

	var prompts []string
	decline := client.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		prompts = append(prompts, prompt)
		return false, nil
	})
	err = owner.GroupBuys.Delete(ctx, created, decline)
	require.ErrorIs(t, err, client.ErrCancelled)
	assert.Equal(t, []string{`Delete group buy "Jeju tangerines"?`}, prompts)
	assert.Zero(t, rec.Count("DELETE /api/groupbuy/"+created.ID))

	require.NoError(t, owner.GroupBuys.Delete(ctx, created, client.AlwaysConfirm))
	_, err = owner.GroupBuys.Get(ctx, created.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestCreateValidatesBeforeSending(t *testing.T) {
	e := newEnv(t)

	owner, rec := e.client("auth0|owner", "Owner")
	form := createForm("4")
	form.Title = ""
	_, err := owner.GroupBuys.Create(context.Background(), form)
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "title is required", err.Error())
	assert.Empty(t, rec.Requests())
}

func TestListAndMe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	_, err := owner.GroupBuys.Create(ctx, createForm("4"))
	require.NoError(t, err)
	other := createForm("2")
	other.Title = "Seoul rice"
	other.Region = "Gangnam"
	_, err = owner.GroupBuys.Create(ctx, other)
	require.NoError(t, err)

	anonymous, _ := e.client("", "")
	page, err := anonymous.GroupBuys.List(ctx, client.ListOptions{Region: "Gangnam"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Seoul rice", page.Items[0].Title)
	assert.Equal(t, int64(1), page.Total)

	me, err := owner.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "auth0|owner", me.ID)

	_, err = anonymous.Me(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthenticated)

	activity, err := owner.Activity(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), activity.GroupBuysOpened)

	_, err = anonymous.Activity(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthenticated)
}

func TestRecipesAndShares(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner, _ := e.client("auth0|owner", "Owner")
	other, _ := e.client("auth0|other", "Other")

	recipe, err := owner.Recipes.Create(ctx, api.CreateRecipeRequest{
		Title:       "Kimchi stew",
		Ingredients: []api.Ingredient{{Name: "kimchi", Amount: "300g"}},
		Steps:       []api.Step{{Text: "Boil"}},
	})
	require.NoError(t, err)

	liked, err := other.Recipes.Like(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, api.Toggle{IsMember: true, Count: 1}, liked)

	_, err = other.Recipes.Edit(ctx, recipe, api.UpdateRecipeRequest{Title: ptr("stolen")})
	assert.ErrorIs(t, err, client.ErrForbidden)
	edited, err := owner.Recipes.Edit(ctx, recipe, api.UpdateRecipeRequest{Title: ptr("Kimchi jjigae")})
	require.NoError(t, err)
	assert.Equal(t, "Kimchi jjigae", edited.Title)
	require.NoError(t, owner.Recipes.Delete(ctx, edited, client.AlwaysConfirm))

	_, err = owner.Shares.Create(ctx, api.CreateShareRequest{Item: "onions", Expiry: "soon"})
	require.ErrorIs(t, err, client.ErrValidation)

	shared, err := owner.Shares.Create(ctx, api.CreateShareRequest{Item: "onions", Expiry: "2026-10-20"})
	require.NoError(t, err)
	assert.False(t, shared.Closed)

	closed := "closed"
	updated, err := owner.Shares.Edit(ctx, shared, api.UpdateShareRequest{Status: &closed})
	require.NoError(t, err)
	assert.True(t, updated.Closed)

	bookmarked, err := other.Shares.Bookmark(ctx, shared.ID)
	require.NoError(t, err)
	assert.True(t, bookmarked.IsMember)

	err = other.Shares.Delete(ctx, updated, client.AlwaysConfirm)
	assert.ErrorIs(t, err, client.ErrForbidden)
	require.NoError(t, owner.Shares.Delete(ctx, updated, client.AlwaysConfirm))
}

func TestTransportFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.New(url, nil)
	_, err := c.GroupBuys.Get(context.Background(), "any")
	require.ErrorIs(t, err, client.ErrTransport)
	assert.True(t, client.Retryable(err))
}

func TestCapacityRejectionMatchesAlreadyClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"message":"group buy is full","code":"capacity_exceeded"}`))
	}))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, nil)
	err := c.REST().Post(context.Background(), "/api/groupbuy/x/join", api.JoinRequest{}, nil)
	require.ErrorIs(t, err, client.ErrCapacityExceeded)
	assert.ErrorIs(t, err, client.ErrAlreadyClosed)
	assert.Equal(t, "group buy is full", err.Error())
}

func TestWatchFollowsJoins(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	owner, _ := e.client("auth0|owner", "Owner")
	created, err := owner.GroupBuys.Create(ctx, createForm("4"))
	require.NoError(t, err)

	events := make(chan client.Event, 4)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- owner.GroupBuys.Watch(ctx, created.ID, func(event client.Event) bool {
			events <- event
			return event.Type == client.EventSnapshot
		})
	}()

	first := <-events
	assert.Equal(t, client.EventSnapshot, first.Type)
	require.NotNil(t, first.GroupBuy)
	assert.Equal(t, 0, first.GroupBuy.ParticipantCount)

	member, _ := e.client("auth0|a", "")
	_, err = member.GroupBuys.Join(ctx, created.ID)
	require.NoError(t, err)

	second := <-events
	assert.Equal(t, client.EventUpdated, second.Type)
	require.NotNil(t, second.GroupBuy)
	assert.Equal(t, 1, second.GroupBuy.ParticipantCount)
	assert.Equal(t, 25, second.GroupBuy.ProgressPercent)
	require.NoError(t, <-watchErr)
}

func TestWatchSkipsOlderSnapshots(t *testing.T) {
	hub := live.NewHub(nil, logger.Discard(), nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "gb", func() (any, error) {
			hub.Publish("gb", live.TypeUpdated, api.GroupBuy{ID: "gb", Version: 3, ParticipantCount: 2})
			hub.Publish("gb", live.TypeUpdated, api.GroupBuy{ID: "gb", Version: 2, ParticipantCount: 1})
			hub.Publish("gb", live.TypeUpdated, api.GroupBuy{ID: "gb", Version: 3, ParticipantCount: 2, BookmarkCount: 1})
			hub.Publish("gb", live.TypeDeleted, nil)
			return api.GroupBuy{ID: "gb", Version: 1}, nil
		})
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := client.New(srv.URL, client.AnonymousSession())
	var versions []int64
	var types []string
	err := c.GroupBuys.Watch(ctx, "gb", func(event client.Event) bool {
		types = append(types, event.Type)
		if event.GroupBuy != nil {
			versions = append(versions, event.GroupBuy.Version)
		}
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 3}, versions)
	assert.Equal(t, []string{client.EventSnapshot, client.EventUpdated, client.EventUpdated, client.EventDeleted}, types)
}

func TestWatchUnknownGroupBuy(t *testing.T) {
	e := newEnv(t)

	anonymous, _ := e.client("", "")
	err := anonymous.GroupBuys.Watch(context.Background(), "00000000-0000-0000-0000-000000000000", func(client.Event) bool { return true })
	assert.ErrorIs(t, err, client.ErrNotFound)
}
