// Package userscmd implements the `cart users` command.
package userscmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/shopcart/cmd/cart/shared"
	"github.com/go-ports/shopcart/internal/models"
)

// Command implements `cart users`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the users command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "users",
		Short: "List users with a saved cart",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	users, err := c.ctx.OpenStore().ListUsers()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found.")
		return nil
	}
	for _, line := range models.NumberLines(users) {
		fmt.Fprintln(out, line)
	}
	return nil
}
