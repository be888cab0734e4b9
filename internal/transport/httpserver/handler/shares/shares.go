package shares

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkcook-go/internal/api"
	engagementdomain "linkcook-go/internal/domain/engagement"
	sharedomain "linkcook-go/internal/domain/share"
	commonhandler "linkcook-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) ListShares(w http.ResponseWriter, r *http.Request) {
	page, err := commonhandler.ParsePage(r)
	if err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}

	query := r.URL.Query()
	items, total, err := h.Shares.List(r.Context(), sharedomain.ListFilter{
		Query:  query.Get("q"),
		Region: query.Get("region"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.list", err)
		return
	}

	now := h.Shares.Now()
	response := api.Page[api.Share]{
		Items:  make([]api.Share, 0, len(items)),
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for i := range items {
		response.Items = append(response.Items, api.FromShare(&items[i], now))
	}
	commonhandler.WriteData(w, http.StatusOK, response)
}

func (h *Handlers) GetShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.Shares.Get(r.Context(), id)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.get", err, "share_id", id)
		return
	}
	commonhandler.WriteData(w, http.StatusOK, api.FromShare(result, h.Shares.Now()))
}

func (h *Handlers) CreateShare(w http.ResponseWriter, r *http.Request) {
	var req api.CreateShareRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	if err := commonhandler.Validate(req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}
	expiry, err := sharedomain.ParseExpiry(req.Expiry)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.create", err)
		return
	}

	input := sharedomain.CreateInput{
		Title:       req.Title,
		Item:        req.Item,
		Description: req.Description,
		Unit:        req.Unit,
		Expiry:      expiry,
		Location:    req.Location,
		Region:      req.Region,
		Image:       req.Image,
	}
	if req.Quantity != nil {
		input.Quantity = *req.Quantity
	}

	who := commonhandler.Caller(r)
	result, err := h.Shares.Create(r.Context(), who, input)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.create", err, "user_id", who.ID)
		return
	}
	commonhandler.WriteData(w, http.StatusCreated, api.FromShare(result, h.Shares.Now()))
}

func (h *Handlers) UpdateShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.UpdateShareRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	if err := commonhandler.Validate(req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}
	who, err := commonhandler.Actor(r, req.Auth0ID)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.update", err, "share_id", id, "user_id", who.ID)
		return
	}

	input := sharedomain.UpdateInput{
		Title:       req.Title,
		Item:        req.Item,
		Description: req.Description,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Location:    req.Location,
		Region:      req.Region,
		Image:       req.Image,
	}
	if req.Expiry != nil {
		expiry, err := sharedomain.ParseExpiry(*req.Expiry)
		if err != nil {
			commonhandler.WriteDomainError(w, h.log, "shares.update", err, "share_id", id)
			return
		}
		input.Expiry = expiry
		input.ClearExpiry = expiry == nil
	}
	if req.Status != nil {
		status := sharedomain.Status(*req.Status)
		input.Status = &status
	}

	result, err := h.Shares.Update(r.Context(), who, id, input)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.update", err, "share_id", id, "user_id", who.ID)
		return
	}
	commonhandler.WriteData(w, http.StatusOK, api.FromShare(result, h.Shares.Now()))
}

func (h *Handlers) DeleteShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.ActorRequest
	if err := commonhandler.DecodeOptionalJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	who, err := commonhandler.Actor(r, req.Auth0ID)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.delete", err, "share_id", id, "user_id", who.ID)
		return
	}

	if err := h.Shares.Delete(r.Context(), who, id); err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.delete", err, "share_id", id, "user_id", who.ID)
		return
	}
	commonhandler.WriteMessage(w, http.StatusOK, "deleted")
}

func (h *Handlers) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.ActorRequest
	if err := commonhandler.DecodeOptionalJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	who, err := commonhandler.Actor(r, req.Auth0ID)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.bookmark", err, "share_id", id, "user_id", who.ID)
		return
	}

	result, err := h.Engagement.Toggle(r.Context(), who, engagementdomain.KindShareBookmark, id)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "shares.bookmark", err, "share_id", id, "user_id", who.ID)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveToggle(string(engagementdomain.KindShareBookmark), result.IsMember)
	}
	commonhandler.WriteData(w, http.StatusOK, api.Toggle{IsMember: result.IsMember, Count: result.Count})
}
