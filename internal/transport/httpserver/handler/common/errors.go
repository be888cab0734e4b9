package common

import (
	"errors"
	"net/http"

	"linkcook-go/internal/api"
	"linkcook-go/internal/domain/activity"
	"linkcook-go/internal/domain/engagement"
	"linkcook-go/internal/domain/groupbuy"
	"linkcook-go/internal/domain/ownership"
	"linkcook-go/internal/domain/recipe"
	"linkcook-go/internal/domain/share"
	"linkcook-go/pkg/logger"
)

// Classify maps a domain error to its HTTP status and stable code.
// Capacity is checked before closure because it wraps it.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, groupbuy.ErrUnauthenticated),
		errors.Is(err, recipe.ErrUnauthenticated),
		errors.Is(err, share.ErrUnauthenticated),
		errors.Is(err, engagement.ErrUnauthenticated),
		errors.Is(err, activity.ErrUnauthenticated):
		return http.StatusUnauthorized, api.CodeUnauthenticated
	case errors.Is(err, ownership.ErrForbidden):
		return http.StatusForbidden, api.CodeForbidden
	case errors.Is(err, groupbuy.ErrCapacityExceeded):
		return http.StatusConflict, api.CodeCapacityExceeded
	case errors.Is(err, groupbuy.ErrAlreadyClosed):
		return http.StatusConflict, api.CodeAlreadyClosed
	case errors.Is(err, groupbuy.ErrInvalidInput),
		errors.Is(err, recipe.ErrInvalidInput),
		errors.Is(err, share.ErrInvalidInput),
		errors.Is(err, engagement.ErrUnknownKind):
		return http.StatusBadRequest, api.CodeInvalidRequest
	case errors.Is(err, groupbuy.ErrGroupBuyNotFound),
		errors.Is(err, recipe.ErrRecipeNotFound),
		errors.Is(err, share.ErrShareNotFound),
		errors.Is(err, engagement.ErrEntityNotFound):
		return http.StatusNotFound, api.CodeNotFound
	case errors.Is(err, groupbuy.ErrConcurrentUpdate),
		errors.Is(err, recipe.ErrConcurrentUpdate),
		errors.Is(err, share.ErrConcurrentUpdate):
		return http.StatusConflict, api.CodeConflict
	default:
		return http.StatusInternalServerError, api.CodeInternal
	}
}

// WriteDomainError logs err at the level its class deserves and writes the
// matching envelope. Internal errors never leak their text.
func WriteDomainError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	status, code := Classify(err)
	if status >= http.StatusInternalServerError {
		log.InternalError(op+": failed", err, args...)
		WriteError(w, status, code, "internal error")
		return
	}

	log.BusinessError(op+": rejected", err, args...)
	WriteError(w, status, code, err.Error())
}
