// Package session holds the state of an interactive cart session: the
// logged-in user and the working cart.
package session

import (
	"errors"
	"log/slog"

	"github.com/go-ports/shopcart/internal/models"
	"github.com/go-ports/shopcart/internal/store"
)

var (
	// ErrNotLoggedIn is returned by operations that require a logged-in user.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrAlreadyLoggedIn is returned by Login once a user is logged in.
	// There is no logout, so a session serves a single user.
	ErrAlreadyLoggedIn = errors.New("already logged in")
)

// Store is the persistence a Session needs.
type Store interface {
	Load(username string) ([]string, error)
	Save(username string, items []string) error
	ListUsers() ([]string, error)
}

var _ Store = (*store.Store)(nil)

// Session is the state of one interactive session. It is not safe for
// concurrent use.
type Session struct {
	store    Store
	user     string
	loggedIn bool
	cart     models.Cart
}

// New returns a logged-out session with an empty cart.
func New(s Store) *Session {
	return &Session{store: s, cart: make(models.Cart, 0)}
}

// User returns the logged-in username, if any.
func (s *Session) User() (string, bool) {
	return s.user, s.loggedIn
}

// Login loads the saved cart of username into the session and returns it.
// A load failure is logged and leaves the cart empty; the login still
// succeeds.
func (s *Session) Login(username string) ([]string, error) {
	if s.loggedIn {
		return nil, ErrAlreadyLoggedIn
	}
	if err := store.ValidateUsername(username); err != nil {
		return nil, err
	}

	s.cart = s.cart[:0]
	items, err := s.store.Load(username)
	if err != nil {
		slog.Error("load cart", "user", username, "err", err)
		items = nil
	}
	s.cart = append(s.cart, items...)
	s.user = username
	s.loggedIn = true
	return s.cart.Clone(), nil
}

// Save persists the working cart for the logged-in user and returns the
// number of items written. Storage failures are logged, not returned.
func (s *Session) Save() (int, error) {
	if !s.loggedIn {
		return 0, ErrNotLoggedIn
	}
	if err := s.store.Save(s.user, s.cart); err != nil {
		slog.Error("save cart", "user", s.user, "err", err)
	}
	return len(s.cart), nil
}

// Add splits text on ", " and appends every resulting item to the cart.
// It returns the items added.
func (s *Session) Add(text string) ([]string, error) {
	if !s.loggedIn {
		return nil, ErrNotLoggedIn
	}
	items := models.SplitItems(text)
	s.cart = append(s.cart, items...)
	return items, nil
}

// Items returns a copy of the working cart. It does not require a login.
func (s *Session) Items() []string {
	return s.cart.Clone()
}

// Users returns every username with a saved cart. A listing failure is
// logged and yields an empty list.
func (s *Session) Users() []string {
	users, err := s.store.ListUsers()
	if err != nil {
		slog.Warn("list users", "err", err)
		return make([]string, 0)
	}
	return users
}
