package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"linkcook-go/internal/api"
	"linkcook-go/internal/domain/countdown"
	"linkcook-go/internal/domain/ownership"
)

type Shares struct {
	c *Client
}

func sharePath(id string) string {
	return "/api/share/" + url.PathEscape(id)
}

func (s *Shares) List(ctx context.Context, opts ListOptions) (api.Page[api.Share], error) {
	var page api.Page[api.Share]
	err := s.c.rest.Get(ctx, "/api/share"+opts.encode(), &page)
	return page, err
}

func (s *Shares) Get(ctx context.Context, id string) (api.Share, error) {
	var out api.Share
	err := s.c.rest.Get(ctx, sharePath(id), &out)
	return out, err
}

func (s *Shares) Create(ctx context.Context, req api.CreateShareRequest) (api.Share, error) {
	var out api.Share
	if err := s.c.requireIdentity(); err != nil {
		return out, err
	}
	if err := validate.Struct(req); err != nil {
		return out, describeValidation(err)
	}
	if err := checkExpiry(req.Expiry); err != nil {
		return out, err
	}
	err := s.c.rest.Post(ctx, "/api/share", req, &out)
	return out, err
}

func (s *Shares) CanMutate(current api.Share) bool {
	return ownership.CanMutate(current.OwnerID, s.c.session.Identity())
}

func (s *Shares) Edit(ctx context.Context, current api.Share, req api.UpdateShareRequest) (api.Share, error) {
	if err := s.c.requireIdentity(); err != nil {
		return current, err
	}
	if !s.CanMutate(current) {
		return current, ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		return current, describeValidation(err)
	}
	if req.Expiry != nil {
		if err := checkExpiry(*req.Expiry); err != nil {
			return current, err
		}
	}
	req.Auth0ID = s.c.session.Identity().ID

	var out api.Share
	err := s.c.guard.Serialize(ctx, current.ID, func() error {
		return s.c.rest.Patch(ctx, sharePath(current.ID), req, &out)
	})
	if err != nil {
		return current, err
	}
	return out, nil
}

func (s *Shares) Delete(ctx context.Context, current api.Share, confirmer Confirmer) error {
	if err := s.c.requireIdentity(); err != nil {
		return err
	}
	if !s.CanMutate(current) {
		return ErrForbidden
	}
	if err := confirm(ctx, confirmer, fmt.Sprintf("Delete share %q?", current.Title)); err != nil {
		return err
	}

	body := api.ActorRequest{Auth0ID: s.c.session.Identity().ID}
	return s.c.guard.Serialize(ctx, current.ID, func() error {
		return s.c.rest.Delete(ctx, sharePath(current.ID), body, nil)
	})
}

func (s *Shares) Bookmark(ctx context.Context, id string) (api.Toggle, error) {
	if err := s.c.requireIdentity(); err != nil {
		return api.Toggle{}, err
	}
	return toggle(ctx, s.c, sharePath(id)+"/bookmark", id, "bookmark")
}

// checkExpiry accepts a blank expiry, which means none or cleared.
func checkExpiry(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := countdown.ParseDeadline(value); err != nil {
		return validationError("expiry: %v", err)
	}
	return nil
}
