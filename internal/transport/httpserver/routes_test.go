package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcook-go/internal/api"
	"linkcook-go/internal/app"
	"linkcook-go/internal/config"
	"linkcook-go/internal/db/dbtest"
	"linkcook-go/internal/metrics"
	"linkcook-go/internal/repository/inmemory"
	authmw "linkcook-go/internal/transport/httpserver/middleware"
	"linkcook-go/pkg/logger"
)

var signingKey = []byte("routes-test-key")

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

type testServer struct {
	t     *testing.T
	srv   *httptest.Server
	clock *testClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	keyfunc := func(*jwt.Token) (any, error) { return signingKey, nil }

	router := app.NewRouter(app.Deps{
		Config: config.Config{
			LiveEnabled: true,
			Cache:       config.CacheConfig{TTL: time.Minute},
		},
		DB:            dbtest.NewSQLite(t),
		Cache:         inmemory.NewInMemoryGroupBuyCache(),
		Authenticator: authmw.NewJWTAuthenticator(keyfunc, "", "", jwt.SigningMethodHS256.Alg()),
		Metrics:       metrics.New(),
		Log:           logger.Discard(),
		Clock:         clock.Now,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{t: t, srv: srv, clock: clock}
}

func token(t *testing.T, sub, name string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"name": name,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(signingKey)
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(method, path, bearer string, body any) (int, api.Envelope) {
	s.t.Helper()

	var reader io.Reader
	switch value := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(value)
	default:
		raw, err := json.Marshal(value)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(s.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var envelope api.Envelope
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func data[T any](t *testing.T, envelope api.Envelope) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(envelope.Data, &value))
	return value
}

func (s *testServer) createGroupBuy(owner string, capacity int) api.GroupBuy {
	s.t.Helper()
	price := int64(12000)
	status, envelope := s.do(http.MethodPost, "/api/groupbuy", owner, api.CreateGroupBuyRequest{
		Title:         "Jeju tangerines",
		Item:          "tangerine box",
		Description:   "5kg boxes straight from the farm",
		TotalQuantity: capacity,
		PricePerUnit:  &price,
		Deadline:      "2026-10-25",
		Region:        "Mapo",
	})
	require.Equal(s.t, http.StatusCreated, status, envelope.Message)
	require.True(s.t, envelope.Success)
	return data[api.GroupBuy](s.t, envelope)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, envelope := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, envelope.Success)

	resp, err := s.srv.Client().Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `linkcook_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}

func TestAuthMe(t *testing.T) {
	s := newTestServer(t)

	status, envelope := s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, api.CodeUnauthenticated, envelope.Code)

	status, envelope = s.do(http.MethodGet, "/api/auth/me", token(t, "auth0|kim", "Kim"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, api.Me{ID: "auth0|kim", DisplayName: "Kim"}, data[api.Me](t, envelope))
}

func TestCreateGroupBuy(t *testing.T) {
	s := newTestServer(t)
	owner := token(t, "auth0|owner", "Owner")

	created := s.createGroupBuy(owner, 4)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "open", created.Status)
	assert.Equal(t, 0, created.ProgressPercent)
	assert.Equal(t, int64(1), created.Version)
	require.NotNil(t, created.OwnerID)
	assert.Equal(t, "auth0|owner", *created.OwnerID)
	assert.Equal(t, "Owner", created.OwnerName)
	assert.True(t, created.Deadline.Equal(time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, created.Remaining.Days)
	assert.Equal(t, 12, created.Remaining.Hours)

	status, envelope := s.do(http.MethodPost, "/api/groupbuy", "", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, envelope.Success)

	status, envelope = s.do(http.MethodPost, "/api/groupbuy", owner, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, api.CodeInvalidJSON, envelope.Code)

	status, envelope = s.do(http.MethodPost, "/api/groupbuy", owner, map[string]any{
		"title": "no capacity", "item": "rice", "pricePerUnit": 0, "deadline": "2026-10-25",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, api.CodeInvalidRequest, envelope.Code)
	assert.Equal(t, "totalQuantity is required", envelope.Message)

	status, envelope = s.do(http.MethodPost, "/api/groupbuy", owner, map[string]any{
		"title": "past", "item": "rice", "totalQuantity": 2, "pricePerUnit": 0, "deadline": "2026-10-01",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, api.CodeInvalidRequest, envelope.Code)
}

func TestJoinUntilFull(t *testing.T) {
	s := newTestServer(t)
	created := s.createGroupBuy(token(t, "auth0|owner", "Owner"), 4)
	path := "/api/groupbuy/" + created.ID + "/join"

	var last api.GroupBuy
	for i, user := range []string{"a", "b", "c", "d"} {
		status, envelope := s.do(http.MethodPost, path, token(t, "auth0|"+user, user), nil)
		require.Equal(t, http.StatusOK, status, envelope.Message)
		last = data[api.GroupBuy](t, envelope)
		assert.Equal(t, i+1, last.ParticipantCount)
	}
	assert.Equal(t, 100, last.ProgressPercent)
	assert.Equal(t, "closed", last.Status)
	assert.True(t, last.Remaining.Closed)
	assert.Len(t, last.Participants, 4)

	status, envelope := s.do(http.MethodPost, path, token(t, "auth0|e", "e"), map[string]int{"count": 1})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, api.CodeCapacityExceeded, envelope.Code)

	status, envelope = s.do(http.MethodPost, path, token(t, "auth0|a", "a"), nil)
	assert.Equal(t, http.StatusConflict, status, "members of a closed purchase are rejected too")

	_, envelope = s.do(http.MethodGet, "/api/groupbuy/"+created.ID, "", nil)
	assert.Equal(t, 4, data[api.GroupBuy](t, envelope).ParticipantCount)
}

func TestJoinTwiceKeepsCount(t *testing.T) {
	s := newTestServer(t)
	created := s.createGroupBuy(token(t, "auth0|owner", "Owner"), 4)
	path := "/api/groupbuy/" + created.ID + "/join"
	member := token(t, "auth0|a", "a")

	_, first := s.do(http.MethodPost, path, member, nil)
	status, second := s.do(http.MethodPost, path, member, map[string]int{"count": 1})
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, 1, data[api.GroupBuy](t, first).ParticipantCount)
	assert.Equal(t, 1, data[api.GroupBuy](t, second).ParticipantCount)
	assert.Equal(t, data[api.GroupBuy](t, first).Version, data[api.GroupBuy](t, second).Version)
}

func TestJoinRejections(t *testing.T) {
	s := newTestServer(t)
	created := s.createGroupBuy(token(t, "auth0|owner", "Owner"), 4)
	path := "/api/groupbuy/" + created.ID + "/join"

	status, envelope := s.do(http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, api.CodeUnauthenticated, envelope.Code)

	status, envelope = s.do(http.MethodPost, path, token(t, "auth0|a", "a"), map[string]int{"count": 3})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, api.CodeInvalidRequest, envelope.Code)

	status, envelope = s.do(http.MethodPost, path, token(t, "auth0|a", "a"), map[string]string{"auth0Id": "auth0|mallory"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, api.CodeForbidden, envelope.Code)

	status, envelope = s.do(http.MethodPost, "/api/groupbuy/00000000-0000-0000-0000-000000000000/join", token(t, "auth0|a", "a"), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, api.CodeNotFound, envelope.Code)

	s.clock.Set(time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC))
	status, envelope = s.do(http.MethodPost, path, token(t, "auth0|a", "a"), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, api.CodeAlreadyClosed, envelope.Code)

	_, envelope = s.do(http.MethodGet, "/api/groupbuy/"+created.ID, "", nil)
	current := data[api.GroupBuy](t, envelope)
	assert.Equal(t, 0, current.ParticipantCount)
	assert.Equal(t, "closed", current.Status)
}

func TestUpdateGroupBuy(t *testing.T) {
	s := newTestServer(t)
	owner := token(t, "auth0|owner", "Owner")
	created := s.createGroupBuy(owner, 4)
	path := "/api/groupbuy/" + created.ID

	status, envelope := s.do(http.MethodPatch, path, token(t, "auth0|other", "Other"), map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, api.CodeForbidden, envelope.Code)

	status, envelope = s.do(http.MethodPatch, path, owner, map[string]any{"title": "Hallabong", "description": "", "totalQuantity": 6})
	require.Equal(t, http.StatusOK, status, envelope.Message)
	updated := data[api.GroupBuy](t, envelope)
	assert.Equal(t, "Hallabong", updated.Title)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, "tangerine box", updated.Item)
	assert.Equal(t, "Mapo", updated.Region)
	assert.Equal(t, 6, updated.TotalQuantity)
	assert.Equal(t, int64(2), updated.Version)

	status, envelope = s.do(http.MethodPatch, path, owner, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, api.CodeInvalidRequest, envelope.Code)

	status, envelope = s.do(http.MethodPatch, path, owner, map[string]any{"auth0Id": "auth0|other", "title": "x"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodPatch, path, owner, map[string]any{"unknown": true})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteGroupBuy(t *testing.T) {
	s := newTestServer(t)
	owner := token(t, "auth0|owner", "Owner")
	created := s.createGroupBuy(owner, 4)
	path := "/api/groupbuy/" + created.ID

	status, _ := s.do(http.MethodDelete, path, token(t, "auth0|other", "Other"), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, envelope := s.do(http.MethodDelete, path, owner, map[string]string{"auth0Id": "auth0|owner"})
	require.Equal(t, http.StatusOK, status, envelope.Message)
	assert.Equal(t, "deleted", envelope.Message)

	status, envelope = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, api.CodeNotFound, envelope.Code)
}

func TestBookmarkToggle(t *testing.T) {
	s := newTestServer(t)
	created := s.createGroupBuy(token(t, "auth0|owner", "Owner"), 4)
	path := "/api/groupbuy/" + created.ID + "/bookmark"
	b := token(t, "auth0|b", "B")

	status, envelope := s.do(http.MethodPost, path, b, nil)
	require.Equal(t, http.StatusOK, status, envelope.Message)
	assert.Equal(t, api.Toggle{IsMember: true, Count: 1}, data[api.Toggle](t, envelope))

	_, envelope = s.do(http.MethodGet, "/api/groupbuy/"+created.ID, "", nil)
	current := data[api.GroupBuy](t, envelope)
	assert.Equal(t, 1, current.BookmarkCount)
	assert.Equal(t, []string{"auth0|b"}, current.BookmarkedBy)

	_, envelope = s.do(http.MethodPost, path, b, nil)
	assert.Equal(t, api.Toggle{IsMember: false, Count: 0}, data[api.Toggle](t, envelope))

	status, _ = s.do(http.MethodPost, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListGroupBuys(t *testing.T) {
	s := newTestServer(t)
	owner := token(t, "auth0|owner", "Owner")
	s.createGroupBuy(owner, 4)
	s.createGroupBuy(owner, 2)

	status, envelope := s.do(http.MethodGet, "/api/groupbuy?region=Mapo&limit=1", "", nil)
	require.Equal(t, http.StatusOK, status)
	page := data[api.Page[api.GroupBuy]](t, envelope)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 1)

	status, envelope = s.do(http.MethodGet, "/api/groupbuy?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, api.CodeInvalidRequest, envelope.Code)
}

func TestLiveFeedReceivesJoin(t *testing.T) {
	s := newTestServer(t)
	created := s.createGroupBuy(token(t, "auth0|owner", "Owner"), 4)

	url := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/api/groupbuy/" + created.ID + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() (string, api.GroupBuy) {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var message struct {
			Type string       `json:"type"`
			Data api.GroupBuy `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&message))
		return message.Type, message.Data
	}

	kind, snapshot := read()
	assert.Equal(t, "snapshot", kind)
	assert.Equal(t, 0, snapshot.ParticipantCount)

	status, _ := s.do(http.MethodPost, "/api/groupbuy/"+created.ID+"/join", token(t, "auth0|a", "a"), nil)
	require.Equal(t, http.StatusOK, status)

	kind, snapshot = read()
	assert.Equal(t, "updated", kind)
	assert.Equal(t, 1, snapshot.ParticipantCount)
}

func TestRecipeLifecycle(t *testing.T) {
	s := newTestServer(t)
	author := token(t, "auth0|chef", "Chef")

	status, envelope := s.do(http.MethodPost, "/api/recipes", author, api.CreateRecipeRequest{
		Title:       "Kimchi stew",
		Ingredients: []api.Ingredient{{Name: "kimchi", Amount: "300g"}, {Name: "pork", Amount: "200g"}},
		Steps:       []api.Step{{Text: "Fry pork"}, {Text: "Add kimchi and water"}},
	})
	require.Equal(t, http.StatusCreated, status, envelope.Message)
	created := data[api.Recipe](t, envelope)
	assert.Equal(t, "Chef", created.Author)
	require.Len(t, created.Steps, 2)
	assert.Equal(t, 2, created.Steps[1].Order)

	path := "/api/recipes/" + created.ID
	status, _ = s.do(http.MethodPatch, path, token(t, "auth0|other", "Other"), map[string]string{"title": "stolen"})
	assert.Equal(t, http.StatusForbidden, status)

	status, envelope = s.do(http.MethodPost, path+"/like", token(t, "auth0|fan", "Fan"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, api.Toggle{IsMember: true, Count: 1}, data[api.Toggle](t, envelope))

	_, envelope = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, int64(1), data[api.Recipe](t, envelope).LikeCount)

	status, _ = s.do(http.MethodDelete, path, author, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(http.MethodPost, path+"/like", token(t, "auth0|fan", "Fan"), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestShareLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := token(t, "auth0|giver", "Giver")
	quantity := 2.5

	status, envelope := s.do(http.MethodPost, "/api/share", owner, api.CreateShareRequest{
		Item:     "Napa cabbage",
		Quantity: &quantity,
		Unit:     "kg",
		Expiry:   "2026-10-20",
		Region:   "Mapo",
	})
	require.Equal(t, http.StatusCreated, status, envelope.Message)
	created := data[api.Share](t, envelope)
	assert.Equal(t, "Napa cabbage", created.Title)
	assert.Equal(t, "open", created.Status)
	assert.False(t, created.Closed)
	assert.Equal(t, 2, created.Remaining.Days)

	path := "/api/share/" + created.ID
	status, envelope = s.do(http.MethodPatch, path, owner, map[string]any{"status": "closed", "expiry": ""})
	require.Equal(t, http.StatusOK, status, envelope.Message)
	updated := data[api.Share](t, envelope)
	assert.True(t, updated.Closed)
	assert.Nil(t, updated.Expiry)

	status, envelope = s.do(http.MethodPatch, path, owner, map[string]any{"status": "gone"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, api.CodeInvalidRequest, envelope.Code)

	status, envelope = s.do(http.MethodPost, path+"/bookmark", token(t, "auth0|b", "B"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, api.Toggle{IsMember: true, Count: 1}, data[api.Toggle](t, envelope))
}

func TestMyActivity(t *testing.T) {
	s := newTestServer(t)
	owner := token(t, "auth0|owner", "Owner")
	member := token(t, "auth0|a", "a")

	status, envelope := s.do(http.MethodGet, "/api/me/activity", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, api.CodeUnauthenticated, envelope.Code)

	created := s.createGroupBuy(owner, 4)
	status, _ = s.do(http.MethodPost, "/api/groupbuy/"+created.ID+"/join", member, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.do(http.MethodPost, "/api/groupbuy/"+created.ID+"/bookmark", member, nil)
	require.Equal(t, http.StatusOK, status)

	status, envelope = s.do(http.MethodGet, "/api/me/activity", member, nil)
	require.Equal(t, http.StatusOK, status, envelope.Message)
	assert.Equal(t, api.Activity{GroupBuysJoined: 1, Bookmarks: 1}, data[api.Activity](t, envelope))

	_, envelope = s.do(http.MethodGet, "/api/me/activity", owner, nil)
	assert.Equal(t, api.Activity{GroupBuysOpened: 1}, data[api.Activity](t, envelope))
}
