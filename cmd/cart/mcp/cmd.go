// Package mcpcmd implements the `cart mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/shopcart/cmd/cart/shared"
	internalmcp "github.com/go-ports/shopcart/internal/mcp"
	"github.com/go-ports/shopcart/internal/session"
)

// Command implements `cart mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the cart MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	sess := session.New(c.ctx.OpenStore())
	return internalmcp.Serve(cmd.Context(), sess, cmd.InOrStdin(), cmd.OutOrStdout())
}
