// Package configcmd implements the `cart config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/shopcart/cmd/cart/shared"
	"github.com/go-ports/shopcart/internal/config"
)

const configTemplate = `# shopcart configuration

# Directory holding one <username>.db file per user.
# Relative paths are resolved against the working directory.
# cart_dir: ~/carts

shell:
  prompt: "> "
  banner: Welcome to your shopping cart

# Diagnostics on stderr: debug | info | warn | error
log:
  level: warn
`

// Command implements `cart config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(),
		newSetDir(),
		newClearDir(),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	dir, source := c.ctx.ResolveCartDir()
	cfg := c.ctx.Settings()
	cfgPath, _ := config.GlobalConfigPath()

	data := map[string]any{
		"shell": map[string]any{
			"prompt": cfg.Shell.Prompt,
			"banner": cfg.Shell.Banner,
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
		"cart_dir":        dir,
		"cart_dir_source": source,
		"config_file":     cfgPath,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, err := config.GlobalConfigPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-dir
// ---------------------------------------------------------------------------

func newSetDir() *cobra.Command {
	return &cobra.Command{
		Use:   "set-dir <path>",
		Short: "Persist the cart directory (used when CART_DIR is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.SetPersistedCartDir(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(resolved, 0o755); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted cart directory: %s\n", resolved)
			fmt.Fprintln(out, "Override anytime with CART_DIR or --cart-dir.")
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-dir
// ---------------------------------------------------------------------------

func newClearDir() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-dir",
		Short: "Remove the persisted cart directory from global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedCartDir()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted cart directory setting.")
			} else {
				fmt.Fprintln(out, "No persisted cart directory setting was found.")
			}
			return nil
		},
	}
}
