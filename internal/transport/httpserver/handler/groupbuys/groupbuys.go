package groupbuys

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkcook-go/internal/api"
	engagementdomain "linkcook-go/internal/domain/engagement"
	groupbuydomain "linkcook-go/internal/domain/groupbuy"
	commonhandler "linkcook-go/internal/transport/httpserver/handler/common"
	"linkcook-go/internal/transport/httpserver/live"
)

func (h *Handlers) ListGroupBuys(w http.ResponseWriter, r *http.Request) {
	page, err := commonhandler.ParsePage(r)
	if err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}

	query := r.URL.Query()
	filter := groupbuydomain.ListFilter{
		Query:  query.Get("q"),
		Region: query.Get("region"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	items, total, err := h.GroupBuys.List(r.Context(), filter)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.list", err)
		return
	}

	now := h.GroupBuys.Now()
	response := api.Page[api.GroupBuy]{
		Items:  make([]api.GroupBuy, 0, len(items)),
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for i := range items {
		response.Items = append(response.Items, api.FromGroupBuy(&items[i], now))
	}

	commonhandler.WriteData(w, http.StatusOK, response)
}

func (h *Handlers) GetGroupBuy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.GroupBuys.Get(r.Context(), id)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.get", err, "group_buy_id", id)
		return
	}

	commonhandler.WriteData(w, http.StatusOK, api.FromGroupBuy(result, h.GroupBuys.Now()))
}

func (h *Handlers) CreateGroupBuy(w http.ResponseWriter, r *http.Request) {
	var req api.CreateGroupBuyRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	if err := commonhandler.Validate(req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}
	deadline, err := groupbuydomain.ParseDeadline(req.Deadline)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.create", err)
		return
	}

	who := commonhandler.Caller(r)
	result, err := h.GroupBuys.Create(r.Context(), groupbuydomain.CreateInput{
		Owner:         who,
		Title:         req.Title,
		Item:          req.Item,
		Description:   req.Description,
		TotalCapacity: req.TotalQuantity,
		PricePerUnit:  *req.PricePerUnit,
		Deadline:      deadline,
		Location:      req.Location,
		Region:        req.Region,
		Image:         req.Image,
	})
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.create", err, "user_id", who.ID)
		return
	}

	commonhandler.WriteData(w, http.StatusCreated, api.FromGroupBuy(result, h.GroupBuys.Now()))
}

func (h *Handlers) UpdateGroupBuy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.UpdateGroupBuyRequest
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
		commonhandler.WriteDomainError(w, h.log, "groupbuys.update", err, "group_buy_id", id, "user_id", who.ID)
		return
	}

	input := groupbuydomain.UpdateInput{
		Title:         req.Title,
		Item:          req.Item,
		Description:   req.Description,
		Location:      req.Location,
		Region:        req.Region,
		Image:         req.Image,
		TotalCapacity: req.TotalQuantity,
		PricePerUnit:  req.PricePerUnit,
	}
	if req.Deadline != nil {
		deadline, err := groupbuydomain.ParseDeadline(*req.Deadline)
		if err != nil {
			commonhandler.WriteDomainError(w, h.log, "groupbuys.update", err, "group_buy_id", id)
			return
		}
		input.Deadline = &deadline
	}

	result, err := h.GroupBuys.Update(r.Context(), who, id, input)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.update", err, "group_buy_id", id, "user_id", who.ID)
		return
	}

	snapshot := api.FromGroupBuy(result, h.GroupBuys.Now())
	h.publish(id, live.TypeUpdated, snapshot)
	commonhandler.WriteData(w, http.StatusOK, snapshot)
}

func (h *Handlers) DeleteGroupBuy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.ActorRequest
	if err := commonhandler.DecodeOptionalJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	who, err := commonhandler.Actor(r, req.Auth0ID)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.delete", err, "group_buy_id", id, "user_id", who.ID)
		return
	}

	if err := h.GroupBuys.Delete(r.Context(), who, id); err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.delete", err, "group_buy_id", id, "user_id", who.ID)
		return
	}

	h.publish(id, live.TypeDeleted, map[string]string{"id": id})
	commonhandler.WriteMessage(w, http.StatusOK, "deleted")
}

func (h *Handlers) JoinGroupBuy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.JoinRequest
	if err := commonhandler.DecodeOptionalJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	who, err := commonhandler.Actor(r, req.Auth0ID)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.join", err, "group_buy_id", id, "user_id", who.ID)
		return
	}

	units := 0
	if req.Count != nil {
		units = *req.Count
	}

	result, err := h.GroupBuys.Join(r.Context(), who, id, units)
	if err != nil {
		_, code := commonhandler.Classify(err)
		h.observeJoin(code)
		commonhandler.WriteDomainError(w, h.log, "groupbuys.join", err, "group_buy_id", id, "user_id", who.ID)
		return
	}
	h.observeJoin("ok")

	snapshot := api.FromGroupBuy(result, h.GroupBuys.Now())
	h.publish(id, live.TypeUpdated, snapshot)
	commonhandler.WriteData(w, http.StatusOK, snapshot)
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
		commonhandler.WriteDomainError(w, h.log, "groupbuys.bookmark", err, "group_buy_id", id, "user_id", who.ID)
		return
	}

	result, err := h.Engagement.Toggle(r.Context(), who, engagementdomain.KindGroupBuyBookmark, id)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.bookmark", err, "group_buy_id", id, "user_id", who.ID)
		return
	}
	h.GroupBuys.Forget(id)
	if h.metrics != nil {
		h.metrics.ObserveToggle(string(engagementdomain.KindGroupBuyBookmark), result.IsMember)
	}
	h.publishCurrent(r, id)

	commonhandler.WriteData(w, http.StatusOK, api.Toggle{IsMember: result.IsMember, Count: result.Count})
}

// Live streams snapshots of one group buy over a websocket.
func (h *Handlers) Live(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.live == nil {
		commonhandler.WriteError(w, http.StatusNotFound, api.CodeNotFound, "live feed disabled")
		return
	}

	err := h.live.Serve(w, r, Topic(id), func() (any, error) {
		result, err := h.GroupBuys.Get(r.Context(), id)
		if err != nil {
			return nil, err
		}
		return api.FromGroupBuy(result, h.GroupBuys.Now()), nil
	})
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "groupbuys.live", err, "group_buy_id", id)
	}
}

func (h *Handlers) publish(id, messageType string, data any) {
	if h.live == nil {
		return
	}
	h.live.Publish(Topic(id), messageType, data)
}

func (h *Handlers) publishCurrent(r *http.Request, id string) {
	if h.live == nil {
		return
	}
	result, err := h.GroupBuys.Get(r.Context(), id)
	if err != nil {
		h.log.Warn("groupbuys.bookmark: reload for live feed failed", "group_buy_id", id, "err", err)
		return
	}
	h.publish(id, live.TypeUpdated, api.FromGroupBuy(result, h.GroupBuys.Now()))
}

func (h *Handlers) observeJoin(outcome string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveJoin(outcome)
}
