package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SFU-teamproject/Smartbuy/internal/api"
	"github.com/SFU-teamproject/Smartbuy/internal/auth"
	"github.com/SFU-teamproject/Smartbuy/internal/client"
	"github.com/SFU-teamproject/Smartbuy/internal/config"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
	"github.com/SFU-teamproject/Smartbuy/internal/mail"
	"github.com/SFU-teamproject/Smartbuy/internal/session"
	"github.com/SFU-teamproject/Smartbuy/internal/storage/memory"
)

const (
	testSecret = "test-secret"

	userEmail = "user@smartbuy.dev"
	userPass  = "password123"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Seed())

	cfg := config.Config{
		JWTIssuer:   "Smartbuy",
		JWTSecret:   testSecret,
		TokenTTLHrs: 1,
		CORSOrigins: []string{"http://localhost:3000"},
	}
	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer: cfg.JWTIssuer, Secret: cfg.JWTSecret, TTLHours: cfg.TokenTTLHrs,
	})
	srv := httptest.NewServer(api.NewRouter(cfg, store, jwtMgr, mail.NewLogMailer()))
	t.Cleanup(srv.Close)
	return srv
}

// newSession builds a session against srv backed by store. Each call
// gets its own API client so unauthorized hooks stay per-session.
func newSession(srv *httptest.Server, store session.Store) (*session.Session, *client.Client) {
	c := client.New(srv.URL)
	return session.New(c, client.NewLiveOrders(c), store), c
}

func loggedIn(t *testing.T, srv *httptest.Server) (*session.Session, *client.Client, session.Store) {
	t.Helper()
	store := session.NewMemStore()
	sess, c := newSession(srv, store)
	require.NoError(t, sess.Init(context.Background()))
	require.NoError(t, sess.Login(context.Background(), userEmail, userPass))
	return sess, c, store
}

func TestInitWithoutTokenStaysAnonymous(t *testing.T) {
	srv := newTestServer(t)
	sess, _ := newSession(srv, session.NewMemStore())

	require.NoError(t, sess.Init(context.Background()))
	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.False(t, sess.IsAuthenticated())
}

func TestLoginHydratesUserAndCart(t *testing.T) {
	srv := newTestServer(t)
	sess, _, store := loggedIn(t, srv)

	assert.Equal(t, session.StateAuthenticated, sess.State())
	u := sess.User()
	assert.Equal(t, userEmail, u.Email)
	require.NotNil(t, u.Cart)
	assert.Equal(t, u.ID, u.Cart.UserID)

	tok, err := store.Get(session.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, sess.Token(), tok)
	assert.NotEmpty(t, tok)
}

func TestLoginWithBadPassword(t *testing.T) {
	srv := newTestServer(t)
	store := session.NewMemStore()
	sess, _ := newSession(srv, store)

	err := sess.Login(context.Background(), userEmail, "nope")
	require.Error(t, err)
	assert.Equal(t, session.StateAnonymous, sess.State())
	tok, _ := store.Get(session.TokenKey)
	assert.Empty(t, tok)
}

func TestInitRestoresPersistedSession(t *testing.T) {
	srv := newTestServer(t)
	_, _, store := loggedIn(t, srv)

	// a fresh session sharing the same store, as after a restart
	restored, _ := newSession(srv, store)
	require.NoError(t, restored.Init(context.Background()))

	assert.Equal(t, session.StateAuthenticated, restored.State())
	u := restored.User()
	assert.Equal(t, userEmail, u.Email)
	require.NotNil(t, u.Cart)
}

func TestInitWithMalformedTokenGoesAnonymous(t *testing.T) {
	srv := newTestServer(t)
	store := session.NewMemStore()
	require.NoError(t, store.Set(session.TokenKey, "not-a-jwt"))

	sess, _ := newSession(srv, store)
	require.NoError(t, sess.Init(context.Background()))

	assert.Equal(t, session.StateAnonymous, sess.State())
	tok, _ := store.Get(session.TokenKey)
	assert.Empty(t, tok, "bad token should be dropped from the store")
}

func TestInitWithRejectedTokenDropsToken(t *testing.T) {
	srv := newTestServer(t)

	// well-formed token signed with the wrong secret
	rogue := auth.NewJWTManager(auth.JWTConfig{Issuer: "Smartbuy", Secret: "other", TTLHours: 1})
	tok, _, err := rogue.Sign(2, "user")
	require.NoError(t, err)

	store := session.NewMemStore()
	require.NoError(t, store.Set(session.TokenKey, tok))

	sess, _ := newSession(srv, store)
	require.NoError(t, sess.Init(context.Background()))

	assert.Equal(t, session.StateAnonymous, sess.State())
	left, _ := store.Get(session.TokenKey)
	assert.Empty(t, left)
}

func TestInitPurgesTokenOnFetchFailure(t *testing.T) {
	// server is up but broken, every restore attempt fails with 500
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
	}))
	t.Cleanup(broken.Close)

	signer := auth.NewJWTManager(auth.JWTConfig{Issuer: "Smartbuy", Secret: testSecret, TTLHours: 1})
	tok, _, err := signer.Sign(2, "user")
	require.NoError(t, err)

	store := session.NewMemStore()
	require.NoError(t, store.Set(session.TokenKey, tok))

	sess, _ := newSession(broken, store)
	require.Error(t, sess.Init(context.Background()))

	assert.Equal(t, session.StateAnonymous, sess.State())
	left, _ := store.Get(session.TokenKey)
	assert.Empty(t, left, "a failed restore must purge the stored token")
}

func TestUnauthorizedMutationTearsDownSession(t *testing.T) {
	// backend that authenticates once, then starts rejecting the token,
	// as after a server-side invalidation
	var reject atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reject.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid access token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/login":
			w.Write([]byte(`{"user":{"id":7,"name":"Eva","email":"a@b.com","role":"user",` +
				`"cart":{"id":1,"user_id":7,"items":[]}},"token":"T"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/carts/1/items":
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
		}
	}))
	t.Cleanup(srv.Close)

	store := session.NewMemStore()
	sess, _ := newSession(srv, store)
	require.NoError(t, sess.Login(context.Background(), "a@b.com", "x"))
	require.Equal(t, session.StateAuthenticated, sess.State())
	assert.Equal(t, int64(7), sess.User().ID)

	reject.Store(true)
	err := sess.AddItem(context.Background(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Empty(t, sess.Token())
	left, _ := store.Get(session.TokenKey)
	assert.Empty(t, left, "a rejected token must be purged no matter which call hit the 401")
}

func TestAddItemMergesQuantity(t *testing.T) {
	srv := newTestServer(t)
	sess, _, _ := loggedIn(t, srv)
	ctx := context.Background()

	require.NoError(t, sess.AddItem(ctx, 1))
	require.NoError(t, sess.AddItem(ctx, 1))

	crt := sess.Cart()
	require.Len(t, crt.Items, 1)
	assert.Equal(t, int64(1), crt.Items[0].SmartphoneID)
	assert.Equal(t, 2, crt.Items[0].Quantity)
}

func TestMutationsKeepLocalCartConsistent(t *testing.T) {
	srv := newTestServer(t)
	sess, c, _ := loggedIn(t, srv)
	ctx := context.Background()

	requireMatchesServer := func() {
		t.Helper()
		local := sess.Cart()
		remote, err := c.GetCartItems(ctx, sess.Token(), local.ID)
		require.NoError(t, err)
		require.Equal(t, len(remote), len(local.Items))
		for i := range remote {
			assert.Equal(t, remote[i].SmartphoneID, local.Items[i].SmartphoneID)
			assert.Equal(t, remote[i].Quantity, local.Items[i].Quantity)
		}
	}

	require.NoError(t, sess.AddItem(ctx, 1))
	requireMatchesServer()

	require.NoError(t, sess.AddItem(ctx, 3))
	requireMatchesServer()

	itemID := sess.Cart().Items[0].ID
	require.NoError(t, sess.SetQuantity(ctx, itemID, 5))
	requireMatchesServer()

	require.NoError(t, sess.RemoveItem(ctx, itemID))
	requireMatchesServer()
	require.Len(t, sess.Cart().Items, 1)
}

func TestSetQuantityRejectsBelowOneLocally(t *testing.T) {
	srv := newTestServer(t)
	sess, _, _ := loggedIn(t, srv)
	ctx := context.Background()

	require.NoError(t, sess.AddItem(ctx, 2))
	itemID := sess.Cart().Items[0].ID

	require.Error(t, sess.SetQuantity(ctx, itemID, 0))
	require.Error(t, sess.SetQuantity(ctx, itemID, -3))
	assert.Equal(t, 1, sess.Cart().Items[0].Quantity, "rejected update must not touch the cart")
}

func TestLogoutClearsSession(t *testing.T) {
	srv := newTestServer(t)
	sess, _, store := loggedIn(t, srv)

	require.NoError(t, sess.Logout())

	assert.Equal(t, session.StateAnonymous, sess.State())
	assert.Empty(t, sess.Token())
	assert.Empty(t, sess.User().Email)
	tok, _ := store.Get(session.TokenKey)
	assert.Empty(t, tok)
}

func TestMutationsAfterLogoutFail(t *testing.T) {
	srv := newTestServer(t)
	sess, _, _ := loggedIn(t, srv)
	require.NoError(t, sess.Logout())

	err := sess.AddItem(context.Background(), 1)
	require.Error(t, err)
}

func TestConcurrentMutationsConverge(t *testing.T) {
	srv := newTestServer(t)
	sess, c, _ := loggedIn(t, srv)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []int64{1, 2, 3, 4, 1, 2} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, sess.AddItem(ctx, id))
		}(id)
	}
	wg.Wait()

	local := sess.Cart()
	remote, err := c.GetCartItems(ctx, sess.Token(), local.ID)
	require.NoError(t, err)
	require.Len(t, remote, 4)
	require.Len(t, local.Items, 4)

	total := 0
	for _, it := range local.Items {
		total += it.Quantity
	}
	assert.Equal(t, 6, total)
}

func TestCheckoutCreatesOrderAndEmptiesCart(t *testing.T) {
	srv := newTestServer(t)
	sess, _, _ := loggedIn(t, srv)
	ctx := context.Background()

	require.NoError(t, sess.AddItem(ctx, 1))
	require.NoError(t, sess.AddItem(ctx, 2))

	ord, err := sess.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, ord.Status)
	assert.NotEmpty(t, ord.Reference)
	assert.Len(t, ord.Items, 2)
	assert.Positive(t, ord.TotalAmount)

	assert.Empty(t, sess.Cart().Items, "checkout must leave an empty cart")

	list, err := sess.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ord.ID, list[0].ID)
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	srv := newTestServer(t)
	sess, _, _ := loggedIn(t, srv)

	_, err := sess.Checkout(context.Background())
	require.Error(t, err)
}

func TestCancelOrder(t *testing.T) {
	srv := newTestServer(t)
	sess, _, _ := loggedIn(t, srv)
	ctx := context.Background()

	require.NoError(t, sess.AddItem(ctx, 3))
	ord, err := sess.Checkout(ctx)
	require.NoError(t, err)

	cancelled, err := sess.CancelOrder(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)

	// cancelling twice is rejected, cancelled is terminal
	_, err = sess.CancelOrder(ctx, ord.ID)
	require.Error(t, err)
}

func TestMockOrdersCheckout(t *testing.T) {
	srv := newTestServer(t)
	store := session.NewMemStore()
	c := client.New(srv.URL)
	sess := session.New(c, client.NewMockOrders(), store)
	ctx := context.Background()

	require.NoError(t, sess.Init(ctx))
	require.NoError(t, sess.Login(ctx, userEmail, userPass))
	require.NoError(t, sess.AddItem(ctx, 4))

	ord, err := sess.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, ord.Status)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, int64(4), ord.Items[0].SmartphoneID)

	list, err := sess.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestUsersIsGatedLocallyForNonAdmins(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.Seed())
	cfg := config.Config{
		JWTIssuer:   "Smartbuy",
		JWTSecret:   testSecret,
		TokenTTLHrs: 1,
		CORSOrigins: []string{"http://localhost:3000"},
	}
	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer: cfg.JWTIssuer, Secret: cfg.JWTSecret, TTLHours: cfg.TokenTTLHrs,
	})
	router := api.NewRouter(cfg, store, jwtMgr, mail.NewLogMailer())

	var usersHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/users" {
			usersHits.Add(1)
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	ctx := context.Background()

	anon, _ := newSession(srv, session.NewMemStore())
	_, err := anon.Users(ctx)
	require.Error(t, err)

	usr, _ := newSession(srv, session.NewMemStore())
	require.NoError(t, usr.Login(ctx, userEmail, userPass))
	assert.False(t, usr.IsAdmin())
	_, err = usr.Users(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(0), usersHits.Load(), "non-admins must be refused without a request")

	adm, _ := newSession(srv, session.NewMemStore())
	require.NoError(t, adm.Login(ctx, "admin@smartbuy.dev", "admin123"))
	assert.True(t, adm.IsAdmin())
	list, err := adm.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int32(1), usersHits.Load())
}

func TestUpdateCartReplacesLocalCopy(t *testing.T) {
	srv := newTestServer(t)
	sess, c, _ := loggedIn(t, srv)
	ctx := context.Background()

	require.NoError(t, sess.AddItem(ctx, 1))

	// a fresh server copy fetched out of band
	crt, err := c.GetCart(ctx, sess.Token(), sess.Cart().ID)
	require.NoError(t, err)
	items, err := c.GetCartItems(ctx, sess.Token(), crt.ID)
	require.NoError(t, err)
	crt.Items = items

	sess.UpdateCart(crt)
	assert.Equal(t, crt.ID, sess.Cart().ID)
	require.Len(t, sess.Cart().Items, 1)
}

func TestSetLanguagePersists(t *testing.T) {
	srv := newTestServer(t)
	store := session.NewMemStore()
	sess, _ := newSession(srv, store)
	ctx := context.Background()

	require.NoError(t, sess.SetLanguage(ctx, "ru"))
	assert.Equal(t, "ru", sess.Language())

	require.Error(t, sess.SetLanguage(ctx, "fr"))
	assert.Equal(t, "ru", sess.Language(), "rejected language must not overwrite the stored one")
}
