package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"linkcook-go/internal/api"
	"linkcook-go/internal/client"
)

// NewShareCommand creates the share command tree.
func NewShareCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Give away leftover ingredients",
	}

	cmd.AddCommand(newShareListCommand(rootOpts))
	cmd.AddCommand(newShareShowCommand(rootOpts))
	cmd.AddCommand(newShareCreateCommand(rootOpts))
	cmd.AddCommand(newShareEditCommand(rootOpts))
	cmd.AddCommand(newShareDeleteCommand(rootOpts))
	cmd.AddCommand(newShareBookmarkCommand(rootOpts))

	return cmd
}

func parseQuantity(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	quantity, err := strconv.ParseFloat(raw, 64)
	if err != nil || quantity < 0 {
		return nil, &client.Error{Kind: client.KindValidation, Message: "quantity must be a non-negative number"}
	}
	return &quantity, nil
}

func newShareListCommand(rootOpts *RootOptions) *cobra.Command {
	var list client.ListOptions

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List shares",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			page, err := c.Shares.List(cmd.Context(), list)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(page, func(w io.Writer) error {
				return renderShareList(w, page)
			})
		},
	}
	addListFlags(cmd, &list, true)

	return cmd
}

func newShareShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a share",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			s, err := c.Shares.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showShare(cmd, s)
		},
	}
}

func (o *RootOptions) showShare(cmd *cobra.Command, s api.Share) error {
	return o.formatter(cmd).Success(s, func(w io.Writer) error {
		return renderShare(w, s)
	})
}

func newShareCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		req      api.CreateShareRequest
		quantity string
	)

	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Offer something to your neighbours",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseQuantity(quantity)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			req.Quantity = parsed

			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			s, err := c.Shares.Create(cmd.Context(), req)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showShare(cmd, s)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Item, "item", "", "item given away (required)")
	flags.StringVar(&req.Title, "title", "", "title, defaults to the item")
	flags.StringVar(&req.Description, "description", "", "description")
	flags.StringVar(&quantity, "quantity", "", "amount")
	flags.StringVar(&req.Unit, "unit", "", "unit of the amount")
	flags.StringVar(&req.Expiry, "expiry", "", "RFC 3339 time or YYYY-MM-DD")
	flags.StringVar(&req.Location, "location", "", "pickup location")
	flags.StringVar(&req.Region, "region", "", "region")
	flags.StringVar(&req.Image, "image", "", "image URL")

	return cmd
}

func newShareEditCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a share you own",
		Long: `Edit a share you own. Only the flags given are changed.
An empty --expiry removes the expiry; --status closed ends the share.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.UpdateShareRequest{
				Title:       stringFlag(cmd, "title"),
				Item:        stringFlag(cmd, "item"),
				Description: stringFlag(cmd, "description"),
				Unit:        stringFlag(cmd, "unit"),
				Expiry:      stringFlag(cmd, "expiry"),
				Location:    stringFlag(cmd, "location"),
				Region:      stringFlag(cmd, "region"),
				Image:       stringFlag(cmd, "image"),
				Status:      stringFlag(cmd, "status"),
			}
			if raw := stringFlag(cmd, "quantity"); raw != nil {
				parsed, err := parseQuantity(*raw)
				if err != nil {
					return rootOpts.fail(cmd, err)
				}
				req.Quantity = parsed
			}

			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			current, err := c.Shares.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			updated, err := c.Shares.Edit(cmd.Context(), current, req)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showShare(cmd, updated)
		},
	}

	flags := cmd.Flags()
	for _, name := range []string{"title", "item", "description", "quantity", "unit", "expiry", "location", "region", "image"} {
		flags.String(name, "", "new "+name)
	}
	flags.String("status", "", "open or closed")

	return cmd
}

func newShareDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a share you own",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			current, err := c.Shares.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			if err := c.Shares.Delete(cmd.Context(), current, rootOpts.confirmer(cmd.ErrOrStderr())); err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(map[string]string{"deleted": current.ID}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "deleted %s\n", current.Title)
				return err
			})
		},
	}
}

func newShareBookmarkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "bookmark <id>",
		Short:         "Toggle your bookmark on a share",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			result, err := c.Shares.Bookmark(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(result, func(w io.Writer) error {
				return renderToggle(w, "bookmarked", "bookmark removed", result)
			})
		},
	}
}
