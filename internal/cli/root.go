// Package cli implements the linkcook command line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"linkcook-go/internal/api"
	"linkcook-go/internal/client"
	"linkcook-go/internal/domain/identity"
)

const defaultServer = "http://localhost:8080"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
	Server  string
	Token   string
	UserID  string
	Name    string
	Email   string
	Yes     bool
	Timeout time.Duration

	// HTTPClient, In and Now are replaced in tests.
	HTTPClient *http.Client
	In         io.Reader
	Now        func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command. Flags default to the LINKCOOK_*
// environment variables.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "linkcook",
		Short: "Linkcook community marketplace client",
		Long:  "Browse, join and manage neighbourhood group buys, recipes and shares.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	flags.StringVar(&opts.Server, "server", envOr("LINKCOOK_SERVER", defaultServer), "service base URL")
	flags.StringVar(&opts.Token, "token", os.Getenv("LINKCOOK_TOKEN"), "bearer token from the identity provider")
	flags.StringVar(&opts.UserID, "user-id", os.Getenv("LINKCOOK_USER_ID"), "identity subject; resolved from the token when empty")
	flags.StringVar(&opts.Name, "name", os.Getenv("LINKCOOK_USER_NAME"), "display name")
	flags.StringVar(&opts.Email, "email", os.Getenv("LINKCOOK_USER_EMAIL"), "email")
	flags.BoolVarP(&opts.Yes, "yes", "y", false, "skip confirmation prompts")
	flags.DurationVar(&opts.Timeout, "timeout", 15*time.Second, "request timeout")

	cmd.AddCommand(NewGroupBuyCommand(opts))
	cmd.AddCommand(NewRecipeCommand(opts))
	cmd.AddCommand(NewShareCommand(opts))
	cmd.AddCommand(NewWhoAmICommand(opts))
	cmd.AddCommand(NewActivityCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

func (o *RootOptions) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// newClient builds a client for the configured identity. Without a token the
// client is anonymous; without a user id the identity is looked up with the
// token.
func (o *RootOptions) newClient(ctx context.Context) (*client.Client, error) {
	server := strings.TrimSpace(o.Server)
	if server == "" {
		server = defaultServer
	}
	if o.Token == "" {
		return client.New(server, client.AnonymousSession(), client.WithHTTPClient(o.httpClient()), client.WithClock(o.now)), nil
	}

	tokens := client.StaticToken(o.Token)
	who := identity.Identity{ID: o.UserID, DisplayName: o.Name, Email: o.Email}
	if !who.IsAuthenticated() {
		var me api.Me
		probe := client.NewREST(server, o.httpClient(), client.NewSession(identity.Anonymous, tokens))
		if err := probe.Get(ctx, "/api/auth/me", &me); err != nil {
			return nil, err
		}
		who = identity.Identity{ID: me.ID, DisplayName: me.DisplayName, Email: me.Email}
	}
	return client.New(server, client.NewSession(who, tokens), client.WithHTTPClient(o.httpClient()), client.WithClock(o.now)), nil
}

// fail reports err in the configured format and converts it to an ExitError.
func (o *RootOptions) fail(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	code, label := exitCodeFor(err)
	_ = o.formatter(cmd).Error(label, err.Error())
	return WrapExitError(code, label, err)
}

// NewWhoAmICommand creates the whoami command.
func NewWhoAmICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the identity the service resolves for the token",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(me, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (%s)\n", identity.Identity{ID: me.ID, DisplayName: me.DisplayName, Email: me.Email}.Label(), me.ID)
				return err
			})
		},
	}
}

// NewActivityCommand creates the activity command.
func NewActivityCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "activity",
		Short:         "Summarize your group buys, recipes, shares and bookmarks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rootOpts.newClient(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			activity, err := c.Activity(cmd.Context())
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return rootOpts.formatter(cmd).Success(activity, func(w io.Writer) error {
				return renderActivity(w, activity)
			})
		},
	}
}
