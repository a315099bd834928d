// End-to-end tests that run the cart CLI in-process with a temporary cart
// directory. Output is captured via cobra's SetOut so tests never touch
// os.Stdout.
package rootcmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	rootcmd "github.com/go-ports/shopcart/cmd/cart/root"
	"github.com/go-ports/shopcart/internal/buildinfo"
	"github.com/go-ports/shopcart/internal/checkers"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// isolateHome points HOME at a temp directory so no real global config is
// read or written.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CART_DIR", "")
	return home
}

// runCmd executes the root command with stdin and args and returns the
// captured stdout along with any execution error.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	execErr := root.ExecuteContext(context.Background())

	return out.String(), execErr
}

// ---------------------------------------------------------------------------
// Help / version
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)

	out, err := runCmd(t, "", "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Interactive shopping cart manager")
	c.Assert(out, qt.Contains, "--cart-dir")
}

func TestVersion_HappyPath(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)

	out, err := runCmd(t, "", "--version")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, buildinfo.Version)
}

// ---------------------------------------------------------------------------
// Shell
// ---------------------------------------------------------------------------

func TestShell_ScenarioAcrossRuns(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)
	dir := filepath.Join(t.TempDir(), "cartdb")

	out, err := runCmd(t, "login alice\nadd milk, eggs, bread\nlist\nsave\n", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Welcome to your shopping cart\n"+
		"> alice, your cart contains the following items:\n"+
		"> milk added to cart\neggs added to cart\nbread added to cart\n"+
		"> 1. milk\n2. eggs\n3. bread\n"+
		"> Your cart has been saved.\n"+
		"> \n")

	// A new process over the same directory.
	out, err = runCmd(t, "login alice\n", "shell", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "alice, your cart contains the following items:\n1. milk\n2. eggs\n3. bread\n")

	data, err := os.ReadFile(filepath.Join(dir, "alice.db"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "milk\neggs\nbread\n")
}

func TestShell_CartDirFromEnv(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)
	dir := filepath.Join(t.TempDir(), "envcarts")
	t.Setenv("CART_DIR", dir)

	_, err := runCmd(t, "login bob\nadd tea\nsave\n")
	c.Assert(err, qt.IsNil)

	_, err = os.Stat(filepath.Join(dir, "bob.db"))
	c.Assert(err, qt.IsNil)
}

func TestShell_PromptFromConfig(t *testing.T) {
	c := qt.New(t)
	home := isolateHome(t)

	cfgPath := filepath.Join(home, ".config", "shopcart", "config.yaml")
	c.Assert(os.MkdirAll(filepath.Dir(cfgPath), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(cfgPath, []byte("shell:\n  prompt: \"cart$ \"\n  banner: Hi\n"), 0o600), qt.IsNil)

	out, err := runCmd(t, "", "--cart-dir", t.TempDir())
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Hi\ncart$ \n")
}

func TestShell_FailurePath(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)

	_, err := runCmd(t, "", "unexpected-arg")
	c.Assert(err, qt.IsNotNil)
}

// ---------------------------------------------------------------------------
// Users / show
// ---------------------------------------------------------------------------

func TestUsers_HappyPath(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)
	dir := t.TempDir()

	out, err := runCmd(t, "", "users", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "No users found.\n")

	_, err = runCmd(t, "login alice\nsave\n", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)
	_, err = runCmd(t, "login bob\nsave\n", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)

	out, err = runCmd(t, "", "users", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	c.Assert(lines, qt.ContentEquals, []string{"1. alice", "2. bob"})

	// The shell's users command agrees.
	out, err = runCmd(t, "users\n", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "The following users are registered:\n")
	c.Assert(out, qt.Contains, "alice")
	c.Assert(out, qt.Contains, "bob")
}

func TestShow_HappyPath(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)
	dir := t.TempDir()

	out, err := runCmd(t, "", "show", "carol", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "carol has no saved items.\n")

	_, err = runCmd(t, "login carol\nadd bread, jam\nsave\n", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)

	out, err = runCmd(t, "", "show", "carol", "--cart-dir", dir)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "1. bread\n2. jam\n")
}

func TestShow_FailurePath(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)

	_, err := runCmd(t, "", "show", "../etc", "--cart-dir", t.TempDir())
	c.Assert(err, qt.ErrorMatches, `invalid username: .*`)

	_, err = runCmd(t, "", "show")
	c.Assert(err, qt.IsNotNil)
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfig_SetShowClear(t *testing.T) {
	c := qt.New(t)
	home := isolateHome(t)
	target := filepath.Join(t.TempDir(), "persisted")

	out, err := runCmd(t, "", "config", "set-dir", target)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Persisted cart directory: "+target)

	info, err := os.Stat(target)
	c.Assert(err, qt.IsNil)
	c.Assert(info.IsDir(), qt.IsTrue)

	out, err = runCmd(t, "", "config")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "cart_dir: "+target)
	c.Assert(out, qt.Contains, "cart_dir_source: config")

	out, err = runCmd(t, "", "config", "--cart-dir", "/tmp/flagdir")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "cart_dir_source: flag")

	out, err = runCmd(t, "", "config", "clear-dir")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Cleared persisted cart directory setting.\n")

	out, err = runCmd(t, "", "config", "clear-dir")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "No persisted cart directory setting was found.\n")

	_, err = os.Stat(filepath.Join(home, ".config", "shopcart", "config.yaml"))
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestConfigInit_HappyPath(t *testing.T) {
	c := qt.New(t)
	home := isolateHome(t)

	out, err := runCmd(t, "", "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Created ")

	out, err = runCmd(t, "", "config", "init")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Config already exists")

	data, err := os.ReadFile(filepath.Join(home, ".config", "shopcart", "config.yaml"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "prompt:")
}

// ---------------------------------------------------------------------------
// MCP over stdio
// ---------------------------------------------------------------------------

func TestMCP_StdioListTools(t *testing.T) {
	c := qt.New(t)
	isolateHome(t)

	stdin := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n"

	out, err := runCmd(t, stdin, "mcp", "--cart-dir", t.TempDir())
	c.Assert(err, qt.IsNil)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	c.Assert(lines, qt.HasLen, 2)
	c.Assert(lines[0], checkers.JSONPathEquals("$.result.serverInfo.name"), "shopcart")
	c.Assert(lines[1], checkers.JSONPathEquals("$.id"), float64(2))
	c.Assert(lines[1], qt.Contains, `"cart_login"`)
}
