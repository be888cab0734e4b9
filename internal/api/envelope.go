// Package api defines the JSON shapes exchanged between the server and its
// clients.
package api

import "encoding/json"

// Envelope wraps every response body.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

const (
	CodeUnauthenticated  = "unauthenticated"
	CodeForbidden        = "forbidden"
	CodeAlreadyClosed    = "already_closed"
	CodeCapacityExceeded = "capacity_exceeded"
	CodeInvalidRequest   = "invalid_request"
	CodeInvalidJSON      = "invalid_json"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeInternal         = "internal_error"
)

type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type Toggle struct {
	IsMember bool  `json:"isMember"`
	Count    int64 `json:"count"`
}

type Me struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Activity is the signed-in user's summary shown on their page.
type Activity struct {
	GroupBuysOpened int64 `json:"groupBuysOpened"`
	GroupBuysJoined int64 `json:"groupBuysJoined"`
	RecipesWritten  int64 `json:"recipesWritten"`
	SharesPosted    int64 `json:"sharesPosted"`
	OpenShares      int64 `json:"openShares"`
	Bookmarks       int64 `json:"bookmarks"`
	RecipesLiked    int64 `json:"recipesLiked"`
}
