// Package mcp provides the stdio MCP server exposing a cart session as tools
// for coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/shopcart/internal/buildinfo"
	"github.com/go-ports/shopcart/internal/session"
)

const loginDescription = `Log in as a user and load their saved cart. A server process serves one user: once logged in, further logins are rejected.`

const addDescription = `Add items to the cart of the logged-in user. Separate several items with ", " (comma and space). Items are kept in memory until cart_save is called.`

const saveDescription = `Persist the in-memory cart of the logged-in user. Call this before ending the session or added items are lost.`

// Server serializes tool calls onto a single cart session.
type Server struct {
	mu   sync.Mutex
	sess *session.Session
}

// NewServer creates and registers all cart tools on a new MCP server backed
// by sess. It is separate from Serve so that tests can obtain a configured
// server without committing to the stdio transport.
func NewServer(sess *session.Session) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("shopcart", buildinfo.Version)
	registerTools(s, &Server{sess: sess})
	return s
}

// Serve runs the MCP server over in/out until ctx is cancelled or in closes.
func Serve(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(NewServer(sess))
	stdio.SetErrorLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// registerTools wires all cart tools into the server.
func registerTools(s *mcpserver.MCPServer, srv *Server) {
	s.AddTool(mcp.NewTool("cart_login",
		mcp.WithDescription(loginDescription),
		mcp.WithString("username",
			mcp.Description("User whose cart to load."),
			mcp.Required(),
		),
	), srv.handleLogin)

	s.AddTool(mcp.NewTool("cart_add",
		mcp.WithDescription(addDescription),
		mcp.WithString("items",
			mcp.Description(`Items to add, e.g. "milk, eggs, bread".`),
			mcp.Required(),
		),
	), srv.handleAdd)

	s.AddTool(mcp.NewTool("cart_list",
		mcp.WithDescription("List the items currently in the cart, in insertion order."),
	), srv.handleList)

	s.AddTool(mcp.NewTool("cart_save",
		mcp.WithDescription(saveDescription),
	), srv.handleSave)

	s.AddTool(mcp.NewTool("cart_users",
		mcp.WithDescription("List every user with a saved cart."),
	), srv.handleUsers)
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func (srv *Server) handleLogin(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := req.GetString("username", "")

	srv.mu.Lock()
	defer srv.mu.Unlock()

	items, err := srv.sess.Login(username)
	if err != nil {
		return mcp.NewToolResultError(errorMessage(err)), nil
	}
	return jsonResult(map[string]any{
		"user":  username,
		"items": items,
	})
}

func (srv *Server) handleAdd(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("items", "")

	srv.mu.Lock()
	defer srv.mu.Unlock()

	added, err := srv.sess.Add(text)
	if err != nil {
		return mcp.NewToolResultError(errorMessage(err)), nil
	}
	return jsonResult(map[string]any{
		"added": added,
		"total": len(srv.sess.Items()),
	})
}

func (srv *Server) handleList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	user, _ := srv.sess.User()
	return jsonResult(map[string]any{
		"user":  user,
		"items": srv.sess.Items(),
	})
}

func (srv *Server) handleSave(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	n, err := srv.sess.Save()
	if err != nil {
		return mcp.NewToolResultError(errorMessage(err)), nil
	}
	user, _ := srv.sess.User()
	return jsonResult(map[string]any{
		"user":  user,
		"saved": n,
	})
}

func (srv *Server) handleUsers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return jsonResult(map[string]any{
		"users": srv.sess.Users(),
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorMessage maps session errors to the text shown to the agent.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		return "not logged in: call cart_login first"
	case errors.Is(err, session.ErrAlreadyLoggedIn):
		return "already logged in: this server serves a single user"
	default:
		return err.Error()
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
