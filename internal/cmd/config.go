package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/eduplay-console/internal/config"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or create the console configuration",
		Long: `Manage the console configuration stored at ~/.eduplay/config.yaml
(or $EDUPLAY_HOME/config.yaml, --config, $EDUPLAY_CONFIG).

Values come from the file, then EDUPLAY_* environment variables, then the
global flags.

Examples:
  # View the effective configuration
  eduplayctl config view

  # Get a specific value
  eduplayctl config get api.url

  # Write a config file with the current settings
  eduplayctl config init

  # Show configuration file path
  eduplayctl config path
`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Display the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigView,
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a specific configuration value",
			Long:  `Retrieve one value using dot notation (e.g., api.url, log.level).`,
			Args:  cobra.ExactArgs(1),
			RunE:  runConfigGet,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
		newConfigInitCmd(),
	)
	return cmd
}

// configTree returns the configuration as the generic tree its YAML
// encodes to, so JSON output uses the same keys as the file.
func configTree(cfg *config.Config) (map[string]interface{}, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if cc.Config.Output.Format == "json" || cc.Config.Output.Format == "yaml" {
		tree, err := configTree(cc.Config)
		if err != nil {
			return ux.FormatError(err, "encoding configuration")
		}
		return cc.Print(tree)
	}

	data, err := yaml.Marshal(cc.Config)
	if err != nil {
		return ux.FormatError(err, "encoding configuration")
	}
	fmt.Fprintf(cc.Out(), "Configuration file: %s\n\n%s", cc.ConfigPath, data)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	tree, err := configTree(cc.Config)
	if err != nil {
		return ux.FormatError(err, "encoding configuration")
	}
	value, err := getNestedValue(tree, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cc.Out(), value)
	return nil
}

// getNestedValue looks up a dot-separated key.
func getNestedValue(tree map[string]interface{}, key string) (string, error) {
	var node interface{} = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return "", unknownKeyError(tree, key)
		}
		if node, ok = m[part]; !ok {
			return "", unknownKeyError(tree, key)
		}
	}
	if _, ok := node.(map[string]interface{}); ok {
		return "", NewErrorWithSuggestions(
			fmt.Sprintf("%s is a section, not a value", key), nil,
			"Use 'eduplayctl config view' to see the whole section",
		)
	}
	return fmt.Sprint(node), nil
}

func unknownKeyError(tree map[string]interface{}, key string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("unknown configuration key: %s", key), nil,
		"Known keys: "+strings.Join(leafKeys(tree, ""), ", "),
	)
}

func leafKeys(tree map[string]interface{}, prefix string) []string {
	var keys []string
	for k, v := range tree {
		if sub, ok := v.(map[string]interface{}); ok {
			keys = append(keys, leafKeys(sub, prefix+k+".")...)
			continue
		}
		keys = append(keys, prefix+k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cc.Out(), cc.ConfigPath)
	return nil
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file",
		Long: `Write the effective configuration (defaults, environment and global
flags) to the configuration file. An existing file is kept unless --force
is given.

Example:
  eduplayctl config init --api-url https://eduplay.example.com/api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if _, err := os.Stat(cc.ConfigPath); err == nil && !force {
				return NewErrorWithSuggestions(
					fmt.Sprintf("Configuration file already exists: %s", cc.ConfigPath), nil,
					"Overwrite it: eduplayctl config init --force",
					"Inspect it: eduplayctl config view",
				)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return ux.FormatError(err, "checking configuration file")
			}

			if err := config.Save(cc.Config, cc.ConfigPath); err != nil {
				return err
			}
			return cc.Print(ux.Message("Configuration written to " + cc.ConfigPath))
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
