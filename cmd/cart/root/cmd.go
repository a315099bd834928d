// Package rootcmd wires the root cobra.Command for the cart CLI binary.
package rootcmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/shopcart/cmd/cart/config"
	mcpcmd "github.com/go-ports/shopcart/cmd/cart/mcp"
	"github.com/go-ports/shopcart/cmd/cart/shared"
	shellcmd "github.com/go-ports/shopcart/cmd/cart/shell"
	showcmd "github.com/go-ports/shopcart/cmd/cart/show"
	userscmd "github.com/go-ports/shopcart/cmd/cart/users"
	"github.com/go-ports/shopcart/internal/buildinfo"
	"github.com/go-ports/shopcart/internal/config"
)

// New creates and returns the root cobra.Command for the cart CLI.
// Without a subcommand it runs the interactive shell.
func New() *cobra.Command {
	ctx := &shared.Context{}
	shell := shellcmd.New(ctx)

	root := &cobra.Command{
		Use:           "cart",
		Short:         "Interactive shopping cart manager",
		Version:       buildinfo.Summary(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadGlobal()
			if err != nil {
				return err
			}
			ctx.Config = cfg
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			})))
			return nil
		},
		RunE: shell.Run,
	}

	root.PersistentFlags().StringVar(
		&ctx.CartDir, "cart-dir", "",
		"Override cart directory (default: $CART_DIR env → persisted config → ./cartdb)",
	)

	root.AddCommand(
		shell.Cmd(),
		userscmd.New(ctx).Cmd(),
		showcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}
