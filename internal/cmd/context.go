package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/eduplay-console/internal/api"
	"github.com/felixgeelhaar/eduplay-console/internal/config"
	"github.com/felixgeelhaar/eduplay-console/internal/log"
	"github.com/felixgeelhaar/eduplay-console/internal/session"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

// CommandContext holds the resolved configuration and collaborators of one
// command invocation. Nothing is kept in package globals, so tests can run
// several command trees side by side.
type CommandContext struct {
	Config     *config.Config
	ConfigPath string
	Home       string
	Logger     *log.Logger

	ctx   context.Context
	out   io.Writer
	store session.Store
}

// NewCommandContext resolves the console home, loads configuration and
// applies the global flags on top. Commands call this first in RunE:
//
//	func runCommand(cmd *cobra.Command, args []string) error {
//		cc, err := NewCommandContext(cmd)
//		if err != nil {
//			return err
//		}
//		// Use cc.Client(), cc.Print(...), etc.
//	}
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	flags := cmd.Flags()

	home, err := flags.GetString("home")
	if err != nil {
		return nil, err
	}
	if home == "" {
		if home, err = config.Home(); err != nil {
			return nil, err
		}
	}

	configFlag, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	path, explicit := config.ResolvePath(configFlag, home)

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.New(log.Config{
		Level:       log.ParseLevel(cfg.Log.Level),
		Format:      log.ParseFormat(cfg.Log.Format),
		Output:      log.NewOutput(cmd.ErrOrStderr()),
		ServiceName: "eduplayctl",
	}).With("command", cmd.CommandPath())
	log.SetDefaultLogger(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &CommandContext{
		Config:     cfg,
		ConfigPath: path,
		Home:       home,
		Logger:     logger,
		ctx:        ctx,
		out:        cmd.OutOrStdout(),
	}, nil
}

// applyFlags overrides configuration with explicitly set global flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if v, err := flags.GetString("api-url"); err != nil {
		return err
	} else if v != "" {
		cfg.API.URL = v
	}
	if v, err := flags.GetString("format"); err != nil {
		return err
	} else if v != "" {
		cfg.Output.Format = v
	}
	if v, err := flags.GetString("log-level"); err != nil {
		return err
	} else if v != "" {
		cfg.Log.Level = v
	}
	if flags.Changed("no-color") {
		v, err := flags.GetBool("no-color")
		if err != nil {
			return err
		}
		cfg.Output.NoColor = v
	}
	return nil
}

// Context returns the invocation's context.
func (c *CommandContext) Context() context.Context { return c.ctx }

// Store returns the file-backed session store in the console home.
func (c *CommandContext) Store() session.Store {
	if c.store == nil {
		c.store = session.NewFileStore(c.Home)
	}
	return c.store
}

// Client returns an API client for the configured base URL.
func (c *CommandContext) Client() *api.Client {
	return api.NewClient(c.Config.API.URL, c.Store(), api.WithLogger(c.Logger))
}

// AuthedClient is Client for commands that need a session. It fails before
// any request when no token is stored.
func (c *CommandContext) AuthedClient() (*api.Client, error) {
	if _, err := session.Require(c.Store()); err != nil {
		return nil, err
	}
	return c.Client(), nil
}

// Formatter returns the output formatter selected by --format.
func (c *CommandContext) Formatter() (ux.Formatter, error) {
	return ux.NewFormatter(c.Config.Output.Format, &ux.FormatterOptions{
		Writer:  c.out,
		NoColor: c.Config.Output.NoColor,
	})
}

// Print writes data in the selected format.
func (c *CommandContext) Print(data interface{}) error {
	f, err := c.Formatter()
	if err != nil {
		return err
	}
	return f.Format(data)
}

// Out is where command results go.
func (c *CommandContext) Out() io.Writer { return c.out }
