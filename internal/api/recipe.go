package api

import (
	"time"

	"linkcook-go/internal/domain/recipe"
)

type Ingredient struct {
	Name   string `json:"name" validate:"required,max=200"`
	Amount string `json:"amount,omitempty" validate:"max=100"`
}

type Step struct {
	Order int    `json:"order"`
	Text  string `json:"text" validate:"required,max=2000"`
}

type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
	Image       string       `json:"image"`
	OwnerID     *string      `json:"ownerId"`
	Author      string       `json:"author"`
	LikeCount   int64        `json:"likeCount"`
	Version     int64        `json:"version"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func FromRecipe(r *recipe.Recipe) Recipe {
	ingredients := make([]Ingredient, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		ingredients = append(ingredients, Ingredient{Name: item.Name, Amount: item.Amount})
	}
	steps := make([]Step, 0, len(r.Steps))
	for _, step := range r.Steps {
		steps = append(steps, Step{Order: step.Order, Text: step.Text})
	}

	return Recipe{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: ingredients,
		Steps:       steps,
		Image:       r.Image,
		OwnerID:     r.OwnerID,
		Author:      r.Author,
		LikeCount:   r.LikeCount,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type CreateRecipeRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description,omitempty" validate:"max=5000"`
	Ingredients []Ingredient `json:"ingredients" validate:"dive"`
	Steps       []Step       `json:"steps" validate:"dive"`
	Image       string       `json:"image,omitempty" validate:"omitempty,url"`
	Author      string       `json:"author,omitempty" validate:"max=100"`
}

type UpdateRecipeRequest struct {
	Auth0ID     string        `json:"auth0Id,omitempty"`
	Title       *string       `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=5000"`
	Ingredients *[]Ingredient `json:"ingredients,omitempty"`
	Steps       *[]Step       `json:"steps,omitempty"`
	Image       *string       `json:"image,omitempty" validate:"omitempty,max=2000"`
	Author      *string       `json:"author,omitempty" validate:"omitempty,max=100"`
}

func (in UpdateRecipeRequest) Domain() recipe.UpdateInput {
	out := recipe.UpdateInput{
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		Author:      in.Author,
	}
	if in.Ingredients != nil {
		items := RecipeIngredients(*in.Ingredients)
		out.Ingredients = &items
	}
	if in.Steps != nil {
		steps := RecipeSteps(*in.Steps)
		out.Steps = &steps
	}
	return out
}

func RecipeIngredients(items []Ingredient) []recipe.Ingredient {
	out := make([]recipe.Ingredient, 0, len(items))
	for _, item := range items {
		out = append(out, recipe.Ingredient{Name: item.Name, Amount: item.Amount})
	}
	return out
}

func RecipeSteps(steps []Step) []recipe.Step {
	out := make([]recipe.Step, 0, len(steps))
	for _, step := range steps {
		out = append(out, recipe.Step{Order: step.Order, Text: step.Text})
	}
	return out
}
