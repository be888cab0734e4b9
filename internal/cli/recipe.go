package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"linkcook-go/internal/api"
	"linkcook-go/internal/client"
)

// NewRecipeCommand creates the recipe command tree.
func NewRecipeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Browse and share recipes",
	}

	cmd.AddCommand(newRecipeListCommand(rootOpts))
	cmd.AddCommand(newRecipeShowCommand(rootOpts))
	cmd.AddCommand(newRecipeCreateCommand(rootOpts))
	cmd.AddCommand(newRecipeEditCommand(rootOpts))
	cmd.AddCommand(newRecipeDeleteCommand(rootOpts))
	cmd.AddCommand(newRecipeLikeCommand(rootOpts))

	return cmd
}

// parseIngredients reads "name=amount" pairs; the amount is optional.
func parseIngredients(values []string) []api.Ingredient {
	ingredients := make([]api.Ingredient, 0, len(values))
	for _, value := range values {
		name, amount, _ := strings.Cut(value, "=")
		ingredients = append(ingredients, api.Ingredient{Name: strings.TrimSpace(name), Amount: strings.TrimSpace(amount)})
	}
	return ingredients
}

func parseSteps(values []string) []api.Step {
	steps := make([]api.Step, 0, len(values))
	for i, value := range values {
		steps = append(steps, api.Step{Order: i + 1, Text: strings.TrimSpace(value)})
	}
	return steps
}

func newRecipeListCommand(rootOpts *RootOptions) *cobra.Command {
	var list client.ListOptions

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recipes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			page, err := c.Recipes.List(cmd.Context(), list)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(page, func(w io.Writer) error {
				return renderRecipeList(w, page)
			})
		},
	}
	addListFlags(cmd, &list, false)

	return cmd
}

func newRecipeShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a recipe",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			recipe, err := c.Recipes.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showRecipe(cmd, recipe)
		},
	}
}

func (o *RootOptions) showRecipe(cmd *cobra.Command, recipe api.Recipe) error {
	return o.formatter(cmd).Success(recipe, func(w io.Writer) error {
		return renderRecipe(w, recipe)
	})
}

func newRecipeCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		req         api.CreateRecipeRequest
		ingredients []string
		steps       []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a recipe",
		Long: `Publish a recipe owned by the current identity.

Example:
  linkcook recipe create --title "Kimchi stew" \
    --ingredient kimchi=300g --ingredient pork=200g --step "Fry the pork" --step "Add kimchi"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			req.Ingredients = parseIngredients(ingredients)
			req.Steps = parseSteps(steps)
			recipe, err := c.Recipes.Create(cmd.Context(), req)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showRecipe(cmd, recipe)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Title, "title", "", "title (required)")
	flags.StringVar(&req.Description, "description", "", "description")
	flags.StringVar(&req.Image, "image", "", "image URL")
	flags.StringVar(&req.Author, "author", "", "author shown instead of your name")
	flags.StringArrayVar(&ingredients, "ingredient", nil, "ingredient as name=amount, repeatable")
	flags.StringArrayVar(&steps, "step", nil, "step text in order, repeatable")

	return cmd
}

func newRecipeEditCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		ingredients []string
		steps       []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a recipe you own",
		Long: `Edit a recipe you own. Only the flags given are changed; --ingredient and
--step replace the whole list.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			current, err := c.Recipes.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}

			req := api.UpdateRecipeRequest{
				Title:       stringFlag(cmd, "title"),
				Description: stringFlag(cmd, "description"),
				Image:       stringFlag(cmd, "image"),
				Author:      stringFlag(cmd, "author"),
			}
			if cmd.Flags().Changed("ingredient") {
				parsed := parseIngredients(ingredients)
				req.Ingredients = &parsed
			}
			if cmd.Flags().Changed("step") {
				parsed := parseSteps(steps)
				req.Steps = &parsed
			}

			updated, err := c.Recipes.Edit(cmd.Context(), current, req)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showRecipe(cmd, updated)
		},
	}

	flags := cmd.Flags()
	for _, name := range []string{"title", "description", "image", "author"} {
		flags.String(name, "", "new "+name)
	}
	flags.StringArrayVar(&ingredients, "ingredient", nil, "ingredient as name=amount, repeatable")
	flags.StringArrayVar(&steps, "step", nil, "step text in order, repeatable")

	return cmd
}

func newRecipeDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a recipe you own",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			current, err := c.Recipes.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			if err := c.Recipes.Delete(cmd.Context(), current, rootOpts.confirmer(cmd.ErrOrStderr())); err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(map[string]string{"deleted": current.ID}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "deleted %s\n", current.Title)
				return err
			})
		},
	}
}

func newRecipeLikeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "like <id>",
		Short:         "Toggle your like on a recipe",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			result, err := c.Recipes.Like(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(result, func(w io.Writer) error {
				return renderToggle(w, "liked", "like removed", result)
			})
		},
	}
}
