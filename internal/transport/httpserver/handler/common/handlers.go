package common

import (
	"net/http"

	"linkcook-go/internal/api"
	"linkcook-go/internal/domain/activity"
	"linkcook-go/internal/domain/identity"
	"linkcook-go/internal/domain/ownership"
	"linkcook-go/internal/transport/httpserver/middleware"
	"linkcook-go/pkg/logger"
)

type Handlers struct {
	Activity *activity.Service
	log      logger.Logger
}

func New(summaries *activity.Service, log logger.Logger) *Handlers {
	return &Handlers{Activity: summaries, log: log}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, api.CodeUnauthenticated, "invalid token")
		return
	}

	WriteData(w, http.StatusOK, api.Me{
		ID:          user.ID,
		DisplayName: user.Label(),
		Email:       user.Email,
	})
}

func (h *Handlers) MyActivity(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Activity.Summary(r.Context(), Caller(r))
	if err != nil {
		WriteDomainError(w, h.log, "activity.summary", err)
		return
	}
	WriteData(w, http.StatusOK, api.Activity(summary))
}

// Caller returns the request identity, Anonymous when there is none.
func Caller(r *http.Request) identity.Identity {
	who, _ := middleware.IdentityFromContext(r.Context())
	return who
}

// Actor returns the caller after checking an acting identity optionally
// repeated in the request body. Anonymous callers pass through so that the
// service reports them as unauthenticated.
func Actor(r *http.Request, claimed string) (identity.Identity, error) {
	who := Caller(r)
	if !who.IsAuthenticated() {
		return who, nil
	}
	if err := ownership.ClaimedActor(claimed, who); err != nil {
		return who, err
	}
	return who, nil
}
