package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"linkcook-go/internal/api"
	"linkcook-go/internal/domain/groupbuy"
	"linkcook-go/internal/domain/ownership"
)

type GroupBuys struct {
	c *Client
}

type ListOptions struct {
	Query  string
	Region string
	Limit  int
	Offset int
}

func (o ListOptions) encode() string {
	values := url.Values{}
	if o.Query != "" {
		values.Set("q", o.Query)
	}
	if o.Region != "" {
		values.Set("region", o.Region)
	}
	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		values.Set("offset", strconv.Itoa(o.Offset))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func groupBuyPath(id string) string {
	return "/api/groupbuy/" + url.PathEscape(id)
}

func (g *GroupBuys) List(ctx context.Context, opts ListOptions) (api.Page[api.GroupBuy], error) {
	var page api.Page[api.GroupBuy]
	err := g.c.rest.Get(ctx, "/api/groupbuy"+opts.encode(), &page)
	return page, err
}

func (g *GroupBuys) Get(ctx context.Context, id string) (api.GroupBuy, error) {
	var out api.GroupBuy
	err := g.c.rest.Get(ctx, groupBuyPath(id), &out)
	return out, err
}

func (g *GroupBuys) Create(ctx context.Context, form CreateForm) (api.GroupBuy, error) {
	var out api.GroupBuy
	if err := g.c.requireIdentity(); err != nil {
		return out, err
	}
	req, err := form.Request()
	if err != nil {
		return out, err
	}
	err = g.c.rest.Post(ctx, "/api/groupbuy", req, &out)
	return out, err
}

// CanMutate reports whether the session identity owns the group buy.
func (g *GroupBuys) CanMutate(current api.GroupBuy) bool {
	return ownership.CanMutate(current.OwnerID, g.c.session.Identity())
}

// Edit applies form to the group buy the caller is viewing and returns the
// server snapshot. Nothing is sent unless the session owns current and the
// form is valid.
func (g *GroupBuys) Edit(ctx context.Context, current api.GroupBuy, form EditForm) (api.GroupBuy, error) {
	if err := g.c.requireIdentity(); err != nil {
		return current, err
	}
	if !g.CanMutate(current) {
		return current, ErrForbidden
	}
	req, err := form.Request()
	if err != nil {
		return current, err
	}
	if isEmptyUpdate(req) {
		return current, nil
	}
	req.Auth0ID = g.c.session.Identity().ID

	var out api.GroupBuy
	err = g.c.guard.Serialize(ctx, current.ID, func() error {
		return g.c.rest.Patch(ctx, groupBuyPath(current.ID), req, &out)
	})
	if err != nil {
		return current, err
	}
	return out, nil
}

// Delete removes the group buy after the user confirms. Ownership is
// checked first and no request is made when it fails or the user declines.
func (g *GroupBuys) Delete(ctx context.Context, current api.GroupBuy, confirmer Confirmer) error {
	if err := g.c.requireIdentity(); err != nil {
		return err
	}
	if !g.CanMutate(current) {
		return ErrForbidden
	}
	if err := confirm(ctx, confirmer, fmt.Sprintf("Delete group buy %q?", current.Title)); err != nil {
		return err
	}

	body := api.ActorRequest{Auth0ID: g.c.session.Identity().ID}
	return g.c.guard.Serialize(ctx, current.ID, func() error {
		return g.c.rest.Delete(ctx, groupBuyPath(current.ID), body, nil)
	})
}

// Join adds the session identity to the group buy. The entity is re-fetched
// and rejected locally when already closed, members included; otherwise the
// server decides.
// Concurrent joins of the same group buy share one request.
func (g *GroupBuys) Join(ctx context.Context, id string) (*groupbuy.GroupBuy, error) {
	if err := g.c.requireIdentity(); err != nil {
		return nil, err
	}
	who := g.c.session.Identity()

	snapshot, err := doTyped(ctx, g.c.guard, id, "join", func() (api.GroupBuy, error) {
		current, err := g.Get(ctx, id)
		if err != nil {
			return current, err
		}
		if groupbuy.IsClosed(current.Domain(), g.c.now()) {
			return current, ErrAlreadyClosed
		}
		if current.Domain().HasParticipant(who.ID) {
			return current, nil
		}

		one := 1
		var out api.GroupBuy
		err = g.c.rest.Post(ctx, groupBuyPath(id)+"/join", api.JoinRequest{Count: &one, Auth0ID: who.ID}, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return snapshot.Domain(), nil
}

// Bookmark flips the session identity's bookmark and returns the server's
// membership and count.
func (g *GroupBuys) Bookmark(ctx context.Context, id string) (api.Toggle, error) {
	if err := g.c.requireIdentity(); err != nil {
		return api.Toggle{}, err
	}
	return toggle(ctx, g.c, groupBuyPath(id)+"/bookmark", id, "bookmark")
}

func toggle(ctx context.Context, c *Client, path, id, op string) (api.Toggle, error) {
	body := api.ActorRequest{Auth0ID: c.session.Identity().ID}
	return doTyped(ctx, c.guard, id, op, func() (api.Toggle, error) {
		var out api.Toggle
		err := c.rest.Post(ctx, path, body, &out)
		return out, err
	})
}
