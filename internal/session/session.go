package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/auth"
	"github.com/SFU-teamproject/Smartbuy/internal/client"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
)

// State describes where the session is in its lifecycle.
type State string

const (
	// StateAnonymous means no usable token: either none was ever
	// stored, or the stored one turned out invalid and was dropped.
	StateAnonymous State = "anonymous"
	// StateInitializing lasts while a stored token is being validated
	// against the server on startup.
	StateInitializing State = "initializing"
	// StateAuthenticated means the profile and cart are hydrated and
	// the token works.
	StateAuthenticated State = "authenticated"
)

// Session holds the authenticated user and their cart, keeping the
// local cart consistent with the server after every mutation. All
// methods are safe for concurrent use; cart mutations are serialized
// so overlapping updates cannot leave the local copy stale.
type Session struct {
	api    *client.Client
	orders client.OrderService
	store  Store

	// op serializes mutate-then-refresh sequences.
	op sync.Mutex

	mu    sync.RWMutex
	state State
	token string
	user  user.User
}

// New wires a session to the API client and the state store, and
// registers itself for token invalidation. It starts anonymous; call
// Init to restore a persisted session.
func New(api *client.Client, orders client.OrderService, store Store) *Session {
	s := &Session{
		api:    api,
		orders: orders,
		store:  store,
		state:  StateAnonymous,
	}
	api.OnUnauthorized = s.invalidate
	return s
}

// Init restores the session from a previously stored token. A missing
// token leaves the session anonymous. Any failure to restore, whether
// the token is malformed, rejected by the server, or the fetch itself
// fails, purges the stored token and reverts to anonymous; a fresh
// login is the only way back in.
func (s *Session) Init(ctx context.Context) error {
	token, err := s.store.Get(TokenKey)
	if err != nil {
		return fmt.Errorf("reading stored token: %w", err)
	}
	if token == "" {
		s.setState(StateAnonymous)
		return nil
	}

	s.setState(StateInitializing)

	userID, err := tokenSubject(token)
	if err != nil {
		_ = s.store.Delete(TokenKey)
		s.setState(StateAnonymous)
		return nil
	}

	u, err := s.api.GetUser(ctx, token, userID)
	if err != nil {
		s.setState(StateAnonymous)
		if errors.Is(err, client.ErrUnauthorized) {
			// the 401 hook already purged the token
			return nil
		}
		_ = s.store.Delete(TokenKey)
		return fmt.Errorf("restoring session: %w", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.token = token
	s.user = u
	s.mu.Unlock()
	return nil
}

// Login authenticates and hydrates the session. The token is persisted
// before the in-memory state flips, so a crash between the two steps
// still leaves a restorable session. The login payload's cart may be a
// summary, so the items are re-fetched by cart id afterwards.
func (s *Session) Login(ctx context.Context, email, password string) error {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.store.Set(TokenKey, res.Token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}

	if res.User.Cart != nil {
		items, err := s.api.GetCartItems(ctx, res.Token, res.User.Cart.ID)
		if err == nil {
			res.User.Cart.Items = items
		}
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.token = res.Token
	s.user = res.User
	s.mu.Unlock()
	return nil
}

// Logout drops the token and resets the session to anonymous. It never
// fails on the server side because tokens are stateless.
func (s *Session) Logout() error {
	err := s.store.Delete(TokenKey)
	s.reset()
	if err != nil {
		return fmt.Errorf("deleting stored token: %w", err)
	}
	return nil
}

// RefreshCart re-reads the cart from the server and replaces the local
// copy. Call it whenever the server may have changed the cart behind
// the session's back (another device, an order checkout).
func (s *Session) RefreshCart(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()
	return s.refreshCartLocked(ctx)
}

func (s *Session) refreshCartLocked(ctx context.Context) error {
	token, u, err := s.authed()
	if err != nil {
		return err
	}
	if u.Cart == nil {
		return fmt.Errorf("%w: session has no cart", apperrors.ErrInternal)
	}

	crt, err := s.api.GetCart(ctx, token, u.Cart.ID)
	if err != nil {
		return err
	}
	items, err := s.api.GetCartItems(ctx, token, u.Cart.ID)
	if err != nil {
		return err
	}
	crt.Items = items

	s.mu.Lock()
	s.user.Cart = &crt
	s.mu.Unlock()
	return nil
}

// UpdateCart replaces the local cart wholesale, for callers that
// already hold fresh server state and want to skip a refresh round
// trip.
func (s *Session) UpdateCart(crt cart.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return
	}
	s.user.Cart = &crt
}

// AddItem puts one unit of a smartphone into the cart. Adding a
// smartphone that is already there bumps its quantity.
func (s *Session) AddItem(ctx context.Context, smartphoneID int64) error {
	s.op.Lock()
	defer s.op.Unlock()

	token, u, err := s.authed()
	if err != nil {
		return err
	}
	if u.Cart == nil {
		return fmt.Errorf("%w: session has no cart", apperrors.ErrInternal)
	}
	if _, err := s.api.AddToCart(ctx, token, u.Cart.ID, smartphoneID, 1); err != nil {
		return err
	}
	return s.refreshCartLocked(ctx)
}

// SetQuantity replaces an item's quantity. Quantities below 1 are
// rejected locally; use RemoveItem to drop an item.
func (s *Session) SetQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", apperrors.ErrBadRequest)
	}

	s.op.Lock()
	defer s.op.Unlock()

	token, u, err := s.authed()
	if err != nil {
		return err
	}
	if u.Cart == nil {
		return fmt.Errorf("%w: session has no cart", apperrors.ErrInternal)
	}
	if _, err := s.api.SetCartItemQuantity(ctx, token, u.Cart.ID, itemID, quantity); err != nil {
		return err
	}
	return s.refreshCartLocked(ctx)
}

// RemoveItem deletes an item from the cart.
func (s *Session) RemoveItem(ctx context.Context, itemID int64) error {
	s.op.Lock()
	defer s.op.Unlock()

	token, u, err := s.authed()
	if err != nil {
		return err
	}
	if u.Cart == nil {
		return fmt.Errorf("%w: session has no cart", apperrors.ErrInternal)
	}
	if _, err := s.api.RemoveFromCart(ctx, token, u.Cart.ID, itemID); err != nil {
		return err
	}
	return s.refreshCartLocked(ctx)
}

// Checkout turns the cart into an order and refreshes the now-empty
// cart.
func (s *Session) Checkout(ctx context.Context) (order.Order, error) {
	s.op.Lock()
	defer s.op.Unlock()

	token, u, err := s.authed()
	if err != nil {
		return order.Order{}, err
	}
	if u.Cart == nil {
		return order.Order{}, fmt.Errorf("%w: session has no cart", apperrors.ErrInternal)
	}
	ord, err := s.orders.CreateOrder(ctx, token, *u.Cart)
	if err != nil {
		return order.Order{}, err
	}
	if err := s.refreshCartLocked(ctx); err != nil {
		return ord, err
	}
	return ord, nil
}

// Orders returns the caller's order history.
func (s *Session) Orders(ctx context.Context) ([]order.Order, error) {
	token, _, err := s.authed()
	if err != nil {
		return nil, err
	}
	return s.orders.GetOrders(ctx, token)
}

// Order returns one order.
func (s *Session) Order(ctx context.Context, id int64) (order.Order, error) {
	token, _, err := s.authed()
	if err != nil {
		return order.Order{}, err
	}
	return s.orders.GetOrderByID(ctx, token, id)
}

// CancelOrder cancels one of the caller's orders.
func (s *Session) CancelOrder(ctx context.Context, id int64) (order.Order, error) {
	token, _, err := s.authed()
	if err != nil {
		return order.Order{}, err
	}
	return s.orders.CancelOrder(ctx, token, id)
}

// Users returns every account. The admin check happens locally, so a
// non-admin session never issues the request.
func (s *Session) Users(ctx context.Context) ([]user.User, error) {
	token, u, err := s.authed()
	if err != nil {
		return nil, err
	}
	if u.Role != user.RoleAdmin {
		return nil, fmt.Errorf("%w: admin only", apperrors.ErrForbidden)
	}
	return s.api.GetUsers(ctx, token)
}

// SetLanguage stores the preferred language server side (cookie) and
// locally so it survives restarts.
func (s *Session) SetLanguage(ctx context.Context, lang string) error {
	if err := s.api.SetLanguage(ctx, lang); err != nil {
		return err
	}
	if err := s.store.Set(LangKey, lang); err != nil {
		return fmt.Errorf("persisting language: %w", err)
	}
	return nil
}

// Language returns the stored preferred language, "" if never set.
func (s *Session) Language() string {
	lang, _ := s.store.Get(LangKey)
	return lang
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the authenticated user, zero when anonymous.
func (s *Session) User() user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Cart returns a copy of the local cart. Nil items means the cart has
// not been hydrated yet.
func (s *Session) Cart() cart.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user.Cart == nil {
		return cart.Cart{}
	}
	return *s.user.Cart
}

// Token returns the bearer token, "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated && s.user.Role == user.RoleAdmin
}

// authed snapshots the token and user, failing when the session is not
// authenticated.
func (s *Session) authed() (string, user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated {
		return "", user.User{}, fmt.Errorf("%w: not logged in", apperrors.ErrUnauthorized)
	}
	return s.token, s.user, nil
}

// invalidate runs when the server rejects the token. The stored token
// is dropped so the next start comes up anonymous instead of looping
// on a dead token.
func (s *Session) invalidate() {
	_ = s.store.Delete(TokenKey)
	s.reset()
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.token = ""
	s.user = user.User{}
	s.mu.Unlock()
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// tokenSubject extracts the user id from an unverified token. The
// client has no signing secret, verification happens server side on
// the first authenticated request.
func tokenSubject(token string) (int64, error) {
	claims := &auth.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("parsing token: %w", err)
	}
	return claims.UserID()
}
