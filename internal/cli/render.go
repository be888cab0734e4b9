package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"linkcook-go/internal/api"
)

const progressWidth = 20

var printer = message.NewPrinter(language.Korean)

// formatPrice renders an amount in won with digit grouping.
func formatPrice(amount int64) string {
	return printer.Sprintf("%d원", amount)
}

// progressBar draws percent as a fixed width bar.
func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * progressWidth / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat("-", progressWidth-filled), percent)
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func renderGroupBuy(w io.Writer, g api.GroupBuy) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t(%s)\n", g.Title, g.Item)
	fmt.Fprintf(tw, "  id\t%s\n", g.ID)
	fmt.Fprintf(tw, "  status\t%s\n", g.Status)
	fmt.Fprintf(tw, "  progress\t%s  %d/%d joined\n", progressBar(g.ProgressPercent), g.ParticipantCount, g.TotalQuantity)
	fmt.Fprintf(tw, "  price\t%s per unit\n", formatPrice(g.PricePerUnit))
	fmt.Fprintf(tw, "  deadline\t%s (%s)\n", formatTime(g.Deadline), g.Remaining.Text)
	fmt.Fprintf(tw, "  location\t%s\n", orDash(strings.TrimSpace(g.Region+" "+g.Location)))
	fmt.Fprintf(tw, "  owner\t%s\n", orDash(g.OwnerName))
	fmt.Fprintf(tw, "  bookmarks\t%d\n", g.BookmarkCount)
	if g.Description != "" {
		fmt.Fprintf(tw, "  about\t%s\n", g.Description)
	}
	return tw.Flush()
}

func renderGroupBuyList(w io.Writer, page api.Page[api.GroupBuy]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPROGRESS\tPRICE\tREGION\tREMAINING")
	for _, g := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d%% (%d/%d)\t%s\t%s\t%s\n",
			g.ID, g.Title, g.ProgressPercent, g.ParticipantCount, g.TotalQuantity,
			formatPrice(g.PricePerUnit), orDash(g.Region), g.Remaining.Text)
	}
	fmt.Fprintf(tw, "%d of %d\n", len(page.Items), page.Total)
	return tw.Flush()
}

func renderRecipe(w io.Writer, r api.Recipe) error {
	fmt.Fprintf(w, "%s\n", r.Title)
	fmt.Fprintf(w, "  id      %s\n", r.ID)
	fmt.Fprintf(w, "  author  %s\n", orDash(r.Author))
	fmt.Fprintf(w, "  likes   %d\n", r.LikeCount)
	if r.Description != "" {
		fmt.Fprintf(w, "  %s\n", r.Description)
	}
	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "Ingredients")
		for _, ingredient := range r.Ingredients {
			if ingredient.Amount != "" {
				fmt.Fprintf(w, "  - %s %s\n", ingredient.Name, ingredient.Amount)
			} else {
				fmt.Fprintf(w, "  - %s\n", ingredient.Name)
			}
		}
	}
	if len(r.Steps) > 0 {
		fmt.Fprintln(w, "Steps")
		for _, step := range r.Steps {
			fmt.Fprintf(w, "  %d. %s\n", step.Order, step.Text)
		}
	}
	return nil
}

func renderRecipeList(w io.Writer, page api.Page[api.Recipe]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tLIKES")
	for _, r := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.ID, r.Title, orDash(r.Author), r.LikeCount)
	}
	fmt.Fprintf(tw, "%d of %d\n", len(page.Items), page.Total)
	return tw.Flush()
}

func shareQuantity(s api.Share) string {
	if s.Quantity == 0 {
		return "-"
	}
	return strings.TrimSpace(strconv.FormatFloat(s.Quantity, 'f', -1, 64) + " " + s.Unit)
}

func shareRemaining(s api.Share) string {
	if s.Closed {
		return "closed"
	}
	if s.Expiry == nil {
		return "no expiry"
	}
	return s.Remaining.Text
}

func renderShare(w io.Writer, s api.Share) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t(%s)\n", s.Title, s.Item)
	fmt.Fprintf(tw, "  id\t%s\n", s.ID)
	fmt.Fprintf(tw, "  status\t%s\n", s.Status)
	fmt.Fprintf(tw, "  quantity\t%s\n", shareQuantity(s))
	fmt.Fprintf(tw, "  expiry\t%s\n", shareRemaining(s))
	fmt.Fprintf(tw, "  location\t%s\n", orDash(strings.TrimSpace(s.Region+" "+s.Location)))
	fmt.Fprintf(tw, "  owner\t%s\n", orDash(s.OwnerName))
	fmt.Fprintf(tw, "  bookmarks\t%d\n", s.BookmarkCount)
	if s.Description != "" {
		fmt.Fprintf(tw, "  about\t%s\n", s.Description)
	}
	return tw.Flush()
}

func renderShareList(w io.Writer, page api.Page[api.Share]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQUANTITY\tREGION\tEXPIRY")
	for _, s := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Title, shareQuantity(s), orDash(s.Region), shareRemaining(s))
	}
	fmt.Fprintf(tw, "%d of %d\n", len(page.Items), page.Total)
	return tw.Flush()
}

func renderToggle(w io.Writer, on, off string, result api.Toggle) error {
	label := off
	if result.IsMember {
		label = on
	}
	_, err := fmt.Fprintf(w, "%s (%d total)\n", label, result.Count)
	return err
}

func renderActivity(w io.Writer, a api.Activity) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "group buys opened\t%d\n", a.GroupBuysOpened)
	fmt.Fprintf(tw, "group buys joined\t%d\n", a.GroupBuysJoined)
	fmt.Fprintf(tw, "recipes written\t%d\n", a.RecipesWritten)
	fmt.Fprintf(tw, "shares posted\t%d (%d open)\n", a.SharesPosted, a.OpenShares)
	fmt.Fprintf(tw, "bookmarks\t%d\n", a.Bookmarks)
	fmt.Fprintf(tw, "recipes liked\t%d\n", a.RecipesLiked)
	return tw.Flush()
}
