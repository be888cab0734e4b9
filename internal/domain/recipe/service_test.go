package recipe

import (
	"context"
	"errors"
	"testing"

	"linkcook-go/internal/domain/identity"
)

type fakeRecipeRepo struct {
	recipes map[string]*Recipe
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: make(map[string]*Recipe)}
}

func (r *fakeRecipeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRecipeRepo) List(ctx context.Context, filter ListFilter) ([]Recipe, int64, error) {
	result := make([]Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		result = append(result, *recipe)
	}
	return result, int64(len(result)), nil
}

func (r *fakeRecipeRepo) GetByID(ctx context.Context, id string) (*Recipe, error) {
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	snapshot := *recipe
	return &snapshot, nil
}

func (r *fakeRecipeRepo) GetForUpdate(ctx context.Context, id string) (*Recipe, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRecipeRepo) Create(ctx context.Context, recipe *Recipe) error {
	stored := *recipe
	r.recipes[recipe.ID] = &stored
	return nil
}

func (r *fakeRecipeRepo) UpdateFields(ctx context.Context, id string, version int64, updates map[string]interface{}) (bool, error) {
	stored, ok := r.recipes[id]
	if !ok || stored.Version != version {
		return false, nil
	}
	for column, value := range updates {
		switch column {
		case "title":
			stored.Title = value.(string)
		case "description":
			stored.Description = value.(string)
		case "image":
			stored.Image = value.(string)
		case "author":
			stored.Author = value.(string)
		}
	}
	stored.Version++
	return true, nil
}

func (r *fakeRecipeRepo) Delete(ctx context.Context, id string) error {
	delete(r.recipes, id)
	return nil
}

func (r *fakeRecipeRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.recipes[id]
	return ok, nil
}

var (
	chef  = identity.Identity{ID: "auth0|chef", DisplayName: "Chef Kim"}
	guest = identity.Identity{ID: "auth0|guest", DisplayName: "Chef Kim"}
)

func TestCreateNormalizesContent(t *testing.T) {
	service := NewService(newFakeRecipeRepo())

	created, err := service.Create(context.Background(), chef, CreateInput{
		Title: "  Kimchi stew ",
		Ingredients: []Ingredient{
			{Name: "kimchi", Amount: "300g"},
			{Name: "  "},
			{Name: "pork belly", Amount: " 200g "},
		},
		Steps: []Step{
			{Order: 5, Text: "Fry the pork"},
			{Order: 2, Text: ""},
			{Order: 9, Text: "Add kimchi and water"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Kimchi stew" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.Author != "Chef Kim" {
		t.Fatalf("expected author from identity, got %q", created.Author)
	}
	if len(created.Ingredients) != 2 || created.Ingredients[1].Amount != "200g" {
		t.Fatalf("unexpected ingredients %+v", created.Ingredients)
	}
	if len(created.Steps) != 2 || created.Steps[0].Order != 1 || created.Steps[1].Order != 2 {
		t.Fatalf("unexpected steps %+v", created.Steps)
	}
	if created.OwnerID == nil || *created.OwnerID != chef.ID {
		t.Fatalf("expected owner %q", chef.ID)
	}
}

func TestCreateRequiresTitleAndIdentity(t *testing.T) {
	service := NewService(newFakeRecipeRepo())

	if _, err := service.Create(context.Background(), chef, CreateInput{Title: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.Create(context.Background(), identity.Anonymous, CreateInput{Title: "x"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	repo := newFakeRecipeRepo()
	service := NewService(repo)
	ctx := context.Background()

	created, err := service.Create(ctx, chef, CreateInput{Title: "Bibimbap"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Stolen"
	if _, err := service.Update(ctx, guest, created.ID, UpdateInput{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := service.Delete(ctx, guest, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	description := "Rice bowl"
	updated, err := service.Update(ctx, chef, created.ID, UpdateInput{Description: &description})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Bibimbap" || updated.Description != "Rice bowl" || updated.Version != 2 {
		t.Fatalf("unexpected recipe after update %+v", updated)
	}

	if err := service.Delete(ctx, chef, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.Get(ctx, created.ID); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}
