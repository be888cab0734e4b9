package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"linkcook-go/internal/api"
	"linkcook-go/internal/client"
)

// NewGroupBuyCommand creates the groupbuy command tree.
func NewGroupBuyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groupbuy",
		Aliases: []string{"gb"},
		Short:   "Browse and join group buys",
	}

	cmd.AddCommand(newGroupBuyListCommand(rootOpts))
	cmd.AddCommand(newGroupBuyShowCommand(rootOpts))
	cmd.AddCommand(newGroupBuyCreateCommand(rootOpts))
	cmd.AddCommand(newGroupBuyEditCommand(rootOpts))
	cmd.AddCommand(newGroupBuyDeleteCommand(rootOpts))
	cmd.AddCommand(newGroupBuyJoinCommand(rootOpts))
	cmd.AddCommand(newGroupBuyBookmarkCommand(rootOpts))
	cmd.AddCommand(newGroupBuyWatchCommand(rootOpts))

	return cmd
}

func addListFlags(cmd *cobra.Command, opts *client.ListOptions, withRegion bool) {
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "search text")
	if withRegion {
		cmd.Flags().StringVar(&opts.Region, "region", "", "only this region")
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "page offset")
}

func newGroupBuyListCommand(rootOpts *RootOptions) *cobra.Command {
	var list client.ListOptions

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List group buys",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			page, err := c.GroupBuys.List(cmd.Context(), list)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(page, func(w io.Writer) error {
				return renderGroupBuyList(w, page)
			})
		},
	}
	addListFlags(cmd, &list, true)

	return cmd
}

func newGroupBuyShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a group buy with its progress and remaining time",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			g, err := c.GroupBuys.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showGroupBuy(cmd, g)
		},
	}
}

func (o *RootOptions) showGroupBuy(cmd *cobra.Command, g api.GroupBuy) error {
	return o.formatter(cmd).Success(g, func(w io.Writer) error {
		return renderGroupBuy(w, g)
	})
}

func newGroupBuyCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var form client.CreateForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new group buy",
		Long: `Open a new group buy owned by the current identity.

Example:
  linkcook groupbuy create --title "Jeju tangerines" --item "5kg box" \
    --quantity 10 --price 12000 --deadline 2026-10-25 --region Mapo`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			g, err := c.GroupBuys.Create(cmd.Context(), form)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showGroupBuy(cmd, g)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.Title, "title", "", "title (required)")
	flags.StringVar(&form.Item, "item", "", "item being bought (required)")
	flags.StringVar(&form.Description, "description", "", "description")
	flags.StringVar(&form.TotalQuantity, "quantity", "", "number of participants (required)")
	flags.StringVar(&form.PricePerUnit, "price", "", "price per unit in won (required)")
	flags.StringVar(&form.Deadline, "deadline", "", "RFC 3339 time or YYYY-MM-DD, the whole day included (required)")
	flags.StringVar(&form.Location, "location", "", "pickup location")
	flags.StringVar(&form.Region, "region", "", "region")
	flags.StringVar(&form.Image, "image", "", "image URL")

	return cmd
}

// stringFlag returns a pointer to the flag value when it was set on the
// command line, so unset flags leave fields unchanged.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &value
}

func newGroupBuyEditCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a group buy you own",
		Long: `Edit a group buy you own. Only the flags given are changed.
An empty --description, --location, --region or --image clears the field.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			current, err := c.GroupBuys.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}

			form := client.EditForm{
				Title:         stringFlag(cmd, "title"),
				Item:          stringFlag(cmd, "item"),
				Description:   stringFlag(cmd, "description"),
				TotalQuantity: stringFlag(cmd, "quantity"),
				PricePerUnit:  stringFlag(cmd, "price"),
				Deadline:      stringFlag(cmd, "deadline"),
				Location:      stringFlag(cmd, "location"),
				Region:        stringFlag(cmd, "region"),
				Image:         stringFlag(cmd, "image"),
			}
			updated, err := c.GroupBuys.Edit(cmd.Context(), current, form)
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showGroupBuy(cmd, updated)
		},
	}

	flags := cmd.Flags()
	for _, name := range []string{"title", "item", "description", "quantity", "price", "deadline", "location", "region", "image"} {
		flags.String(name, "", "new "+name)
	}

	return cmd
}

func newGroupBuyDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a group buy you own",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			current, err := c.GroupBuys.Get(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			if err := c.GroupBuys.Delete(cmd.Context(), current, rootOpts.confirmer(cmd.ErrOrStderr())); err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(map[string]string{"deleted": current.ID}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "deleted %s\n", current.Title)
				return err
			})
		},
	}
}

func newGroupBuyJoinCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "join <id>",
		Short:         "Join a group buy",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			joined, err := c.GroupBuys.Join(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.showGroupBuy(cmd, api.FromGroupBuy(joined, rootOpts.now()))
		},
	}
}

func newGroupBuyBookmarkCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "bookmark <id>",
		Short:         "Toggle your bookmark on a group buy",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			result, err := c.GroupBuys.Bookmark(cmd.Context(), args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(result, func(w io.Writer) error {
				return renderToggle(w, "bookmarked", "bookmark removed", result)
			})
		},
	}
}

func newGroupBuyWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:           "watch <id>",
		Short:         "Follow a group buy live until it is deleted or interrupted",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			out := rootOpts.formatter(cmd)
			seen := 0
			err = c.GroupBuys.Watch(cmd.Context(), args[0], func(event client.Event) bool {
				seen++
				if err := out.Success(watchLine(event), func(w io.Writer) error {
					_, err := fmt.Fprintln(w, watchText(event))
					return err
				}); err != nil {
					return false
				}
				return count <= 0 || seen < count
			})
			return rootOpts.fail(cmd, err)
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many events (0 for no limit)")

	return cmd
}

type watchEvent struct {
	Type     string        `json:"type"`
	GroupBuy *api.GroupBuy `json:"groupBuy,omitempty"`
}

func watchLine(event client.Event) watchEvent {
	return watchEvent{Type: event.Type, GroupBuy: event.GroupBuy}
}

func watchText(event client.Event) string {
	if event.GroupBuy == nil {
		return event.Type
	}
	g := event.GroupBuy
	return fmt.Sprintf("%-8s %s %d/%d %s", event.Type, progressBar(g.ProgressPercent), g.ParticipantCount, g.TotalQuantity, g.Remaining.Text)
}
