package recipes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkcook-go/internal/api"
	engagementdomain "linkcook-go/internal/domain/engagement"
	recipedomain "linkcook-go/internal/domain/recipe"
	commonhandler "linkcook-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := commonhandler.ParsePage(r)
	if err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}

	items, total, err := h.Recipes.List(r.Context(), recipedomain.ListFilter{
		Query:  r.URL.Query().Get("q"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "recipes.list", err)
		return
	}

	response := api.Page[api.Recipe]{
		Items:  make([]api.Recipe, 0, len(items)),
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for i := range items {
		response.Items = append(response.Items, api.FromRecipe(&items[i]))
	}
	commonhandler.WriteData(w, http.StatusOK, response)
}

func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.Recipes.Get(r.Context(), id)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "recipes.get", err, "recipe_id", id)
		return
	}
	commonhandler.WriteData(w, http.StatusOK, api.FromRecipe(result))
}

func (h *Handlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req api.CreateRecipeRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	if err := commonhandler.Validate(req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		return
	}

	who := commonhandler.Caller(r)
	result, err := h.Recipes.Create(r.Context(), who, recipedomain.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: api.RecipeIngredients(req.Ingredients),
		Steps:       api.RecipeSteps(req.Steps),
		Image:       req.Image,
		Author:      req.Author,
	})
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "recipes.create", err, "user_id", who.ID)
		return
	}
	commonhandler.WriteData(w, http.StatusCreated, api.FromRecipe(result))
}

func (h *Handlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.UpdateRecipeRequest
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
		commonhandler.WriteDomainError(w, h.log, "recipes.update", err, "recipe_id", id, "user_id", who.ID)
		return
	}

	result, err := h.Recipes.Update(r.Context(), who, id, req.Domain())
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "recipes.update", err, "recipe_id", id, "user_id", who.ID)
		return
	}
	commonhandler.WriteData(w, http.StatusOK, api.FromRecipe(result))
}

func (h *Handlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.ActorRequest
	if err := commonhandler.DecodeOptionalJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	who, err := commonhandler.Actor(r, req.Auth0ID)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "recipes.delete", err, "recipe_id", id, "user_id", who.ID)
		return
	}

	if err := h.Recipes.Delete(r.Context(), who, id); err != nil {
		commonhandler.WriteDomainError(w, h.log, "recipes.delete", err, "recipe_id", id, "user_id", who.ID)
		return
	}
	commonhandler.WriteMessage(w, http.StatusOK, "deleted")
}

func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req api.ActorRequest
	if err := commonhandler.DecodeOptionalJSON(r, &req); err != nil {
		commonhandler.WriteError(w, http.StatusBadRequest, api.CodeInvalidJSON, "invalid json body")
		return
	}
	who, err := commonhandler.Actor(r, req.Auth0ID)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "recipes.like", err, "recipe_id", id, "user_id", who.ID)
		return
	}

	result, err := h.Engagement.Toggle(r.Context(), who, engagementdomain.KindRecipeLike, id)
	if err != nil {
		commonhandler.WriteDomainError(w, h.log, "recipes.like", err, "recipe_id", id, "user_id", who.ID)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveToggle(string(engagementdomain.KindRecipeLike), result.IsMember)
	}
	commonhandler.WriteData(w, http.StatusOK, api.Toggle{IsMember: result.IsMember, Count: result.Count})
}
