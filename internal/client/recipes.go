package client

import (
	"context"
	"fmt"
	"net/url"

	"linkcook-go/internal/api"
	"linkcook-go/internal/domain/ownership"
)

type Recipes struct {
	c *Client
}

func recipePath(id string) string {
	return "/api/recipes/" + url.PathEscape(id)
}

func (r *Recipes) List(ctx context.Context, opts ListOptions) (api.Page[api.Recipe], error) {
	var page api.Page[api.Recipe]
	err := r.c.rest.Get(ctx, "/api/recipes"+opts.encode(), &page)
	return page, err
}

func (r *Recipes) Get(ctx context.Context, id string) (api.Recipe, error) {
	var out api.Recipe
	err := r.c.rest.Get(ctx, recipePath(id), &out)
	return out, err
}

func (r *Recipes) Create(ctx context.Context, req api.CreateRecipeRequest) (api.Recipe, error) {
	var out api.Recipe
	if err := r.c.requireIdentity(); err != nil {
		return out, err
	}
	if err := validate.Struct(req); err != nil {
		return out, describeValidation(err)
	}
	err := r.c.rest.Post(ctx, "/api/recipes", req, &out)
	return out, err
}

func (r *Recipes) CanMutate(current api.Recipe) bool {
	return ownership.CanMutate(current.OwnerID, r.c.session.Identity())
}

func (r *Recipes) Edit(ctx context.Context, current api.Recipe, req api.UpdateRecipeRequest) (api.Recipe, error) {
	if err := r.c.requireIdentity(); err != nil {
		return current, err
	}
	if !r.CanMutate(current) {
		return current, ErrForbidden
	}
	if req.Title != nil && *req.Title == "" {
		return current, validationError("title cannot be empty")
	}
	if err := validate.Struct(req); err != nil {
		return current, describeValidation(err)
	}
	req.Auth0ID = r.c.session.Identity().ID

	var out api.Recipe
	err := r.c.guard.Serialize(ctx, current.ID, func() error {
		return r.c.rest.Patch(ctx, recipePath(current.ID), req, &out)
	})
	if err != nil {
		return current, err
	}
	return out, nil
}

func (r *Recipes) Delete(ctx context.Context, current api.Recipe, confirmer Confirmer) error {
	if err := r.c.requireIdentity(); err != nil {
		return err
	}
	if !r.CanMutate(current) {
		return ErrForbidden
	}
	if err := confirm(ctx, confirmer, fmt.Sprintf("Delete recipe %q?", current.Title)); err != nil {
		return err
	}

	body := api.ActorRequest{Auth0ID: r.c.session.Identity().ID}
	return r.c.guard.Serialize(ctx, current.ID, func() error {
		return r.c.rest.Delete(ctx, recipePath(current.ID), body, nil)
	})
}

func (r *Recipes) Like(ctx context.Context, id string) (api.Toggle, error) {
	if err := r.c.requireIdentity(); err != nil {
		return api.Toggle{}, err
	}
	return toggle(ctx, r.c, recipePath(id)+"/like", id, "like")
}
