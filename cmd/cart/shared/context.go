// Package shared holds the context passed to all CLI commands.
package shared

import (
	"github.com/go-ports/shopcart/internal/config"
	"github.com/go-ports/shopcart/internal/store"
)

// Context carries global CLI state (flags set on the root command and the
// configuration loaded before any command runs).
type Context struct {
	// CartDir overrides the cart directory.
	// When empty, resolution falls through to CART_DIR env var → persisted config → ./cartdb.
	CartDir string

	// Config is the global configuration, loaded by the root command.
	Config *config.Config
}

// ResolveCartDir returns the effective cart directory and where it came from.
func (c *Context) ResolveCartDir() (dir, source string) {
	if c.CartDir != "" {
		return c.CartDir, "flag"
	}
	return config.ResolveCartDir()
}

// OpenStore opens the cart store at the effective cart directory.
func (c *Context) OpenStore() *store.Store {
	dir, _ := c.ResolveCartDir()
	return store.Open(dir)
}

// Settings returns the loaded configuration, or defaults when none was loaded.
func (c *Context) Settings() *config.Config {
	if c.Config == nil {
		return config.Default()
	}
	return c.Config
}
