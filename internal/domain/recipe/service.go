package recipe

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"linkcook-go/internal/domain/identity"
	"linkcook-go/internal/domain/ownership"
	"linkcook-go/internal/domain/textutil"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Recipe, int64, error) {
	filter.Query = textutil.Clean(filter.Query)
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Recipe, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) Create(ctx context.Context, who identity.Identity, input CreateInput) (*Recipe, error) {
	if !who.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	title := textutil.Clean(input.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	author := textutil.Clean(input.Author)
	if author == "" {
		author = who.Label()
	}

	recipe := Recipe{
		ID:          uuid.NewString(),
		Title:       title,
		Description: textutil.Clean(input.Description),
		Ingredients: datatypes.NewJSONSlice(normalizeIngredients(input.Ingredients)),
		Steps:       datatypes.NewJSONSlice(normalizeSteps(input.Steps)),
		Image:       textutil.Clean(input.Image),
		OwnerID:     ownership.OwnerOf(who),
		Author:      author,
		Version:     1,
	}
	if err := s.repo.Create(ctx, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *Service) Update(ctx context.Context, who identity.Identity, id string, input UpdateInput) (*Recipe, error) {
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

		updates := make(map[string]interface{})
		if input.Title != nil {
			title := textutil.Clean(*input.Title)
			if title == "" {
				return invalid("title is required")
			}
			updates["title"] = title
		}
		if input.Description != nil {
			updates["description"] = textutil.Clean(*input.Description)
		}
		if input.Image != nil {
			updates["image"] = textutil.Clean(*input.Image)
		}
		if input.Author != nil {
			updates["author"] = textutil.Clean(*input.Author)
		}
		if input.Ingredients != nil {
			updates["ingredients"] = datatypes.NewJSONSlice(normalizeIngredients(*input.Ingredients))
		}
		if input.Steps != nil {
			updates["steps"] = datatypes.NewJSONSlice(normalizeSteps(*input.Steps))
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

func normalizeIngredients(items []Ingredient) []Ingredient {
	result := make([]Ingredient, 0, len(items))
	for _, item := range items {
		name := textutil.Clean(item.Name)
		if name == "" {
			continue
		}
		result = append(result, Ingredient{Name: name, Amount: textutil.Clean(item.Amount)})
	}
	return result
}

// normalizeSteps drops blank steps and renumbers the rest from 1 in the
// order given.
func normalizeSteps(steps []Step) []Step {
	result := make([]Step, 0, len(steps))
	for _, step := range steps {
		text := textutil.Clean(step.Text)
		if text == "" {
			continue
		}
		result = append(result, Step{Order: len(result) + 1, Text: text})
	}
	return result
}
