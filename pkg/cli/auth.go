package cli

import (
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/ticktick-cli/pkg/auth"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

func newAuthCommand(app *App) *cobra.Command {
	var manual bool
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Get an OAuth2 access token for the TickTick API",
		Long: `Get an OAuth2 access token for the TickTick V1 API.

The flow opens your browser to TickTick's authorization page, waits for
the redirect, exchanges the authorization code for an access token, and
prints the token for your .env file.

Requires TICKTICK_CLIENT_ID and TICKTICK_CLIENT_SECRET. The redirect URI
defaults to http://127.0.0.1:8080/callback and can be changed with
TICKTICK_REDIRECT_URI. Use --manual on machines without a browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Settings.ClientID == "" || app.Settings.ClientSecret == "" {
				return &ticktick.ConfigurationError{
					Message: "OAuth client credentials are not configured.",
					Missing: []string{"TICKTICK_CLIENT_ID", "TICKTICK_CLIENT_SECRET"},
				}
			}
			flow := auth.Flow{
				ClientID:     app.Settings.ClientID,
				ClientSecret: app.Settings.ClientSecret,
				Host:         app.Settings.Host,
				RedirectURI:  app.Settings.RedirectURI,
				Manual:       manual,
				Out:          app.Stdout,
			}
			return flow.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&manual, "manual", "m", false, "Manual mode: prints URL for you to visit (SSH-friendly)")
	return cmd
}
