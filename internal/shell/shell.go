// Package shell implements the line-oriented command loop of the cart CLI and
// the human-readable output of each command.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-ports/shopcart/internal/models"
	"github.com/go-ports/shopcart/internal/session"
	"github.com/go-ports/shopcart/internal/store"
)

// Defaults used when Options leave a field empty.
const (
	DefaultPrompt = "> "
	DefaultBanner = "Welcome to your shopping cart"
)

// User-facing messages.
const (
	msgAlreadyLoggedIn = "Please log out before logging in as a different user."
	msgSaveNoLogin     = "Please login as a user before saving the cart."
	msgAddNoLogin      = "Please login as a user before adding items to the cart."
	msgSaved           = "Your cart has been saved."
	msgUsersHeader     = "The following users are registered:"
	msgInvalidCommand  = "Invalid command. Try again."
	msgLineTooLong     = "Input line too long. Try again."
)

// Options configure a Shell.
type Options struct {
	Prompt string
	Banner string
}

// Shell dispatches commands to a session and writes their output.
type Shell struct {
	sess   *session.Session
	out    io.Writer
	prompt string
	banner string
}

// New returns a Shell that drives sess and writes to out.
func New(sess *session.Session, out io.Writer, opts Options) *Shell {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.Banner == "" {
		opts.Banner = DefaultBanner
	}
	return &Shell{sess: sess, out: out, prompt: opts.Prompt, banner: opts.Banner}
}

// ParseCommand splits line at the first space into a lower-cased command and
// the verbatim remainder. The remainder is empty when there is no space.
func ParseCommand(line string) (cmd, args string) {
	cmd, args, _ = strings.Cut(line, " ")
	return strings.ToLower(cmd), args
}

// Run prints the banner and processes one command per input line until the
// input is exhausted, which ends the loop cleanly, or ctx is cancelled.
// Lines longer than store.MaxLineSize are rejected and the loop continues.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(sh.out, sh.banner)

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(sh.out, sh.prompt)

		var res lineResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(sh.out)
			return ctx.Err()
		case res = <-lines:
		}

		if res.line != "" || res.err == nil {
			if len(res.line) > store.MaxLineSize {
				fmt.Fprintln(sh.out, msgLineTooLong)
			} else {
				sh.Execute(res.line)
			}
		}

		switch {
		case errors.Is(res.err, io.EOF):
			if res.line != "" {
				fmt.Fprint(sh.out, sh.prompt)
			}
			fmt.Fprintln(sh.out)
			return nil
		case res.err != nil:
			return fmt.Errorf("shell: read input: %w", res.err)
		}
	}
}

type lineResult struct {
	line string
	err  error
}

// readLines reads in line by line on its own goroutine so a blocked read
// never delays cancellation. The terminator ("\n" or "\r\n") is stripped.
// The goroutine stops after the first error or once done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan lineResult {
	lines := make(chan lineResult)
	go func() {
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			select {
			case lines <- lineResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// Execute runs a single command line.
func (sh *Shell) Execute(line string) {
	cmd, args := ParseCommand(line)
	switch cmd {
	case "login":
		sh.Login(args)
	case "save":
		sh.Save()
	case "add":
		sh.Add(args)
	case "list":
		sh.List()
	case "users":
		sh.Users()
	default:
		fmt.Fprintln(sh.out, msgInvalidCommand)
	}
}

// Login logs in as username and prints the loaded cart.
func (sh *Shell) Login(username string) {
	items, err := sh.sess.Login(username)
	switch {
	case errors.Is(err, session.ErrAlreadyLoggedIn):
		fmt.Fprintln(sh.out, msgAlreadyLoggedIn)
		return
	case errors.Is(err, store.ErrInvalidUsername):
		fmt.Fprintf(sh.out, "Invalid username: %s\n", username)
		return
	case err != nil:
		fmt.Fprintln(sh.out, err)
		return
	}
	fmt.Fprintf(sh.out, "%s, your cart contains the following items:\n", username)
	sh.printNumbered(items)
}

// Save persists the cart of the logged-in user.
func (sh *Shell) Save() {
	if _, err := sh.sess.Save(); errors.Is(err, session.ErrNotLoggedIn) {
		fmt.Fprintln(sh.out, msgSaveNoLogin)
		return
	}
	fmt.Fprintln(sh.out, msgSaved)
}

// Add appends the comma-space separated items to the cart.
func (sh *Shell) Add(text string) {
	added, err := sh.sess.Add(text)
	if errors.Is(err, session.ErrNotLoggedIn) {
		fmt.Fprintln(sh.out, msgAddNoLogin)
		return
	}
	for _, item := range added {
		fmt.Fprintf(sh.out, "%s added to cart\n", item)
	}
}

// List prints the working cart.
func (sh *Shell) List() {
	sh.printNumbered(sh.sess.Items())
}

// Users prints every registered username.
func (sh *Shell) Users() {
	fmt.Fprintln(sh.out, msgUsersHeader)
	sh.printNumbered(sh.sess.Users())
}

func (sh *Shell) printNumbered(entries []string) {
	for _, line := range models.NumberLines(entries) {
		fmt.Fprintln(sh.out, line)
	}
}
