// Package showcmd implements the `cart show` command.
package showcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/shopcart/cmd/cart/shared"
	"github.com/go-ports/shopcart/internal/models"
)

// Command implements `cart show`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the show command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "show <username>",
		Short: "Print a user's saved cart without logging in",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	username := args[0]
	items, err := c.ctx.OpenStore().Load(username)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintf(out, "%s has no saved items.\n", username)
		return nil
	}
	for _, line := range models.NumberLines(items) {
		fmt.Fprintln(out, line)
	}
	return nil
}
