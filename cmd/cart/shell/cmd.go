// Package shellcmd implements the `cart shell` command, the interactive loop.
package shellcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/shopcart/cmd/cart/shared"
	"github.com/go-ports/shopcart/internal/session"
	"github.com/go-ports/shopcart/internal/shell"
)

// Command implements `cart shell`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the shell command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive cart shell (default command)",
		Long: `Reads one command per line from standard input:

  login <username>   log in and print the saved cart
  add <items>        add items separated by ", "
  list               print the cart
  save               persist the cart
  users              print registered users

The shell stops at end of input.`,
		Args: cobra.NoArgs,
		RunE: c.Run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

// Run starts the shell on the command's input and output streams.
func (c *Command) Run(cmd *cobra.Command, _ []string) error {
	cfg := c.ctx.Settings()
	sess := session.New(c.ctx.OpenStore())
	sh := shell.New(sess, cmd.OutOrStdout(), shell.Options{
		Prompt: cfg.Shell.Prompt,
		Banner: cfg.Shell.Banner,
	})
	return sh.Run(cmd.Context(), cmd.InOrStdin())
}
