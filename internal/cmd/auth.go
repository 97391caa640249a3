package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	"github.com/felixgeelhaar/eduplay-console/internal/session"
	"github.com/felixgeelhaar/eduplay-console/internal/tui"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin",
		Long: `Exchange admin credentials for a session token. The token is stored in
the console home and sent with every later command.

Missing credentials are prompted for when stdin is a terminal.

Examples:
  eduplayctl login
  eduplayctl login --username admin --password admin123
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if username == "" || password == "" {
				if !tui.ShouldPrompt() {
					return NotInteractiveError("credentials", "--username", "--password")
				}
				if username, password, err = promptCredentials(username, password); err != nil {
					return err
				}
			}

			if _, err := cc.Client().Login(cc.Context(), username, password); err != nil {
				if api.IsUnauthorized(err) {
					return NewErrorWithSuggestions(api.Message(err), err,
						"Check the username and password",
						"Run 'eduplayctl seed' to create the demo admin (admin / admin123)",
					)
				}
				return apiFailure(cc.Config.API.URL, "Login failed", err)
			}

			cc.Logger.Info("logged in", "username", username)
			return cc.Print(ux.Message("Login successful!"))
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	return cmd
}

func promptCredentials(username, password string) (string, string, error) {
	if password != "" {
		u, err := tui.PromptForString(tui.Prompt{Message: "Username", Required: true})
		return u, password, err
	}
	return tui.PromptLogin(username)
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := cc.Client().Logout(); err != nil {
				return ux.FormatError(err, "Logout failed")
			}
			return cc.Print(ux.Message("Logged out successfully"))
		},
	}
}

// statusReport describes the local session. It never calls the API.
type statusReport struct {
	APIURL    string     `json:"api_url" yaml:"api_url"`
	Config    string     `json:"config" yaml:"config"`
	Home      string     `json:"home" yaml:"home"`
	LoggedIn  bool       `json:"logged_in" yaml:"logged_in"`
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool       `json:"expired" yaml:"expired"`
}

func buildStatus(cc *CommandContext, now time.Time) statusReport {
	r := statusReport{
		APIURL: cc.Config.API.URL,
		Config: cc.ConfigPath,
		Home:   cc.Home,
	}
	token, ok := cc.Store().Token()
	if !ok {
		return r
	}
	r.LoggedIn = true
	if claims, err := session.Inspect(token); err == nil {
		r.Subject = claims.Subject
		r.ExpiresAt = claims.ExpiresAt
		r.Expired = claims.Expired(now)
	} else {
		cc.Logger.Debug("session token is not a JWT", "error", err)
	}
	return r
}

func (r statusReport) record() ux.Record {
	state := "not logged in"
	if r.LoggedIn {
		state = "logged in"
		if r.Subject != "" {
			state += " (admin " + r.Subject + ")"
		}
	}
	fields := []ux.Field{
		{Label: "API", Value: r.APIURL},
		{Label: "Config", Value: r.Config},
		{Label: "Home", Value: r.Home},
		{Label: "Session", Value: state},
	}
	if r.ExpiresAt != nil {
		expires := r.ExpiresAt.Local().Format(time.RFC1123)
		if r.Expired {
			expires += " (expired)"
		}
		fields = append(fields, ux.Field{Label: "Expires", Value: expires})
	}
	return ux.Record{Fields: fields, Value: r}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configured API and the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return cc.Print(buildStatus(cc, time.Now()).record())
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the backend to its sample data",
		Long: `Initialize the backend with sample users, games, builds, revenue and
updates, and the demo admin account. Existing data is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			res, err := cc.Client().SeedSampleData(cc.Context())
			if err != nil {
				return apiFailure(cc.Config.API.URL, "Failed to initialize sample data", err)
			}

			text := "Sample data initialized!"
			if c := res.AdminCredentials; c["username"] != "" {
				text += fmt.Sprintf(" Use username: %s, password: %s", c["username"], c["password"])
			}
			return cc.Print(ux.Record{
				Fields: []ux.Field{{Label: "Result", Value: text}},
				Value:  res,
			})
		},
	}
}
