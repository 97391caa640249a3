package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	"github.com/felixgeelhaar/eduplay-console/internal/catalog"
	"github.com/felixgeelhaar/eduplay-console/internal/log"
	"github.com/felixgeelhaar/eduplay-console/internal/tui"
)

func newConsoleCmd() *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Open the interactive terminal console",
		Long: `Open the full-screen console: a login screen, the dashboard and one tab
per entity with create, edit and delete dialogs.

The console owns the terminal while it runs, so it logs to the file set by
log.file in the configuration (default ~/.eduplay/console.log).

Example:
  eduplayctl console --entities users,games`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			entities, err := consoleEntities(only)
			if err != nil {
				return err
			}
			if !tui.IsInteractive() {
				return NotInteractiveError("the console", "use the list, create, update and delete commands instead")
			}

			logger := log.Discard()
			if path := cc.Config.LogPath(cc.Home); path != "" {
				out, closer, err := log.OpenFileOutput(path)
				if err != nil {
					return err
				}
				defer closer.Close()
				logger = log.New(log.Config{
					Level:       log.ParseLevel(cc.Config.Log.Level),
					Format:      log.ParseFormat(cc.Config.Log.Format),
					Output:      out,
					ServiceName: "eduplayctl",
				}).With("command", "console")
			}

			client := api.NewClient(cc.Config.API.URL, cc.Store(), api.WithLogger(logger))
			logger.Info("console started", "api_url", client.BaseURL())
			return tui.Run(cc.Context(), client, tui.Options{Logger: logger, Entities: entities})
		},
	}

	cmd.Flags().StringSliceVar(&only, "entities", nil, "tabs to show, in order (default all)")
	return cmd
}

// consoleEntities resolves --entities; nil selects every entity.
func consoleEntities(names []string) ([]catalog.Descriptor, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]catalog.Descriptor, 0, len(names))
	for _, name := range names {
		d, err := catalog.Lookup(strings.TrimSpace(name))
		if err != nil {
			return nil, NewErrorWithSuggestions(err.Error(), nil,
				"Known entities: "+strings.Join(catalog.Names(), ", "))
		}
		out = append(out, d)
	}
	return out, nil
}
