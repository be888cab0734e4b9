package user

import (
	"context"
	"fmt"

	"linkcook-go/internal/domain/identity"
	"linkcook-go/internal/domain/textutil"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile records the latest name and email seen for the identity.
// Empty values never overwrite stored ones.
func (s *Service) UpsertProfile(ctx context.Context, who identity.Identity) error {
	if !who.IsAuthenticated() {
		return fmt.Errorf("user id is required")
	}

	profile := Profile{UserID: who.ID}
	if name := textutil.Clean(who.DisplayName); name != "" {
		profile.DisplayName = &name
	}
	if email := textutil.Clean(who.Email); email != "" {
		profile.Email = &email
	}

	return s.repo.UpsertProfile(ctx, &profile)
}
