package share

import (
	"context"
	"time"

	"github.com/google/uuid"

	"linkcook-go/internal/domain/identity"
	"linkcook-go/internal/domain/ownership"
	"linkcook-go/internal/domain/textutil"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Share, int64, error) {
	filter.Query = textutil.Clean(filter.Query)
	filter.Region = textutil.Clean(filter.Region)
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Share, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) Create(ctx context.Context, who identity.Identity, input CreateInput) (*Share, error) {
	if !who.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	item := textutil.Clean(input.Item)
	if item == "" {
		return nil, invalid("item is required")
	}
	if input.Quantity < 0 {
		return nil, invalid("quantity must not be negative")
	}
	var expiry *time.Time
	if input.Expiry != nil {
		value := input.Expiry.UTC()
		if !value.After(s.now()) {
			return nil, invalid("expiry must be in the future")
		}
		expiry = &value
	}

	share := Share{
		ID:          uuid.NewString(),
		Title:       textutil.Clean(input.Title),
		Item:        item,
		Description: textutil.Clean(input.Description),
		Quantity:    input.Quantity,
		Unit:        textutil.Clean(input.Unit),
		Expiry:      expiry,
		Location:    textutil.Clean(input.Location),
		Region:      textutil.Clean(input.Region),
		Image:       textutil.Clean(input.Image),
		Status:      StatusOpen,
		OwnerID:     ownership.OwnerOf(who),
		OwnerName:   who.Label(),
		Version:     1,
	}
	if err := s.repo.Create(ctx, &share); err != nil {
		return nil, err
	}
	return &share, nil
}

func (s *Service) Update(ctx context.Context, who identity.Identity, id string, input UpdateInput) (*Share, error) {
	if !who.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := ownership.Require(current.OwnerID, who); err != nil {
			return err
		}

		updates, err := s.buildUpdates(input)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		ok, err := tx.UpdateFields(ctx, id, current.Version, updates)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentUpdate
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) buildUpdates(input UpdateInput) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if input.Item != nil {
		item := textutil.Clean(*input.Item)
		if item == "" {
			return nil, invalid("item is required")
		}
		updates["item"] = item
	}
	texts := map[string]*string{
		"title":       input.Title,
		"description": input.Description,
		"unit":        input.Unit,
		"location":    input.Location,
		"region":      input.Region,
		"image":       input.Image,
	}
	for column, value := range texts {
		if value != nil {
			updates[column] = textutil.Clean(*value)
		}
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, invalid("quantity must not be negative")
		}
		updates["quantity"] = *input.Quantity
	}
	switch {
	case input.ClearExpiry:
		updates["expiry"] = nil
	case input.Expiry != nil:
		if !input.Expiry.After(s.now()) {
			return nil, invalid("expiry must be in the future")
		}
		updates["expiry"] = input.Expiry.UTC()
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, invalid("status must be open or closed")
		}
		updates["status"] = *input.Status
	}

	return updates, nil
}

func (s *Service) Delete(ctx context.Context, who identity.Identity, id string) error {
	if !who.IsAuthenticated() {
		return ErrUnauthenticated
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := ownership.Require(current.OwnerID, who); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
}
