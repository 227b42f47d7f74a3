package users

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/auth"
	smail "github.com/SFU-teamproject/Smartbuy/internal/mail"
	"github.com/SFU-teamproject/Smartbuy/internal/storage"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
	"github.com/SFU-teamproject/Smartbuy/internal/util"
)

const tmpPasswordTTL = 24 * time.Hour

type Handler struct {
	store  storage.Store
	jwt    *auth.JWTManager
	mailer smail.Mailer
}

func NewHandler(store storage.Store, jwtMgr *auth.JWTManager, mailer smail.Mailer) *Handler {
	return &Handler{store: store, jwt: jwtMgr, mailer: mailer}
}

type signupReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

// Signup registers an account and mails a single-use password. The
// account has no permanent password until the user sets one.
func (h *Handler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: error decoding signup request: %w", apperrors.ErrBadRequest, err))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: incorrect email address: %w", apperrors.ErrBadRequest, err))
		return
	}

	newUser, err := h.store.CreateUser(c.Request.Context(), user.User{
		Name: req.Name, Email: req.Email, Role: user.RoleUser,
	})
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error creating user: %w", err))
		return
	}

	pass, err := util.RandomToken(9)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error generating tmp password: %w", err))
		return
	}
	tp := user.TmpPassword{Email: newUser.Email, Password: pass, ExpiresAt: time.Now().Add(tmpPasswordTTL)}
	if _, err := h.store.CreateTmpPassword(c.Request.Context(), tp); err != nil {
		apperrors.JSON(c, fmt.Errorf("error saving tmp password: %w", err))
		return
	}
	if err := h.mailer.Send(newUser.Email, "Your Smartbuy password",
		fmt.Sprintf("Hello %s!\n\nYour one-time password: %s\nIt expires in 24 hours.\n", newUser.Name, pass)); err != nil {
		apperrors.JSON(c, fmt.Errorf("error sending tmp password: %w", err))
		return
	}

	c.JSON(http.StatusCreated, newUser)
}

// Login authenticates against the stored bcrypt hash or an unexpired
// single-use password, signs a JWT and returns the user with a fully
// hydrated cart so clients can render without extra round trips.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: error decoding login request: %w", apperrors.ErrBadRequest, err))
		return
	}

	ctx := c.Request.Context()
	existing, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			apperrors.JSON(c, fmt.Errorf("%w: %w", apperrors.ErrInvalidCredentials, err))
			return
		}
		apperrors.JSON(c, fmt.Errorf("error getting user: %w", err))
		return
	}

	loggedIn := existing.Password != "" && auth.CheckPassword(existing.Password, req.Password)
	if !loggedIn {
		if err := h.loginWithTmpPassword(c, existing, req.Password); err != nil {
			apperrors.JSON(c, fmt.Errorf("%w: %w", apperrors.ErrInvalidCredentials, err))
			return
		}
		loggedIn = true
	}

	token, _, err := h.jwt.Sign(existing.ID, existing.Role)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error signing token: %w", err))
		return
	}

	crt, err := h.store.GetCartByUserID(ctx, existing.ID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting cart: %w", err))
		return
	}
	items, err := h.store.GetCartItems(ctx, crt.ID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting cart items: %w", err))
		return
	}
	crt.Items = items
	existing.Cart = &crt

	c.JSON(http.StatusOK, loginResponse{User: existing, Token: token})
}

// loginWithTmpPassword consumes the one-time password and promotes it
// to the account's permanent bcrypt hash.
func (h *Handler) loginWithTmpPassword(c *gin.Context, u user.User, password string) error {
	ctx := c.Request.Context()
	tp, err := h.store.GetTmpPassword(ctx, u.Email)
	if err != nil {
		return err
	}
	if time.Now().After(tp.ExpiresAt) {
		return fmt.Errorf("tmp password expired at %s", tp.ExpiresAt)
	}
	if tp.Password != password {
		return errors.New("tmp password mismatch")
	}
	if err := h.store.DeleteTmpPassword(ctx, u.Email); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return h.store.UpdateUserPassword(ctx, u.ID, hash)
}

// List is admin-only; the route is guarded by RequireRole.
func (h *Handler) List(c *gin.Context) {
	users, err := h.store.GetUsers(c.Request.Context())
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting users: %w", err))
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get returns a user with cart hydrated; self or admin only.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: bad user id: %w", apperrors.ErrBadRequest, err))
		return
	}
	requesterID, role := auth.Identity(c)
	if requesterID != id && role != user.RoleAdmin {
		apperrors.JSON(c, apperrors.ErrForbidden)
		return
	}

	ctx := c.Request.Context()
	u, err := h.store.GetUser(ctx, id)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting user %d: %w", id, err))
		return
	}
	crt, err := h.store.GetCartByUserID(ctx, u.ID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting cart: %w", err))
		return
	}
	items, err := h.store.GetCartItems(ctx, crt.ID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting cart items: %w", err))
		return
	}
	crt.Items = items
	u.Cart = &crt
	c.JSON(http.StatusOK, u)
}
