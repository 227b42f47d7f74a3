package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
)

// LoginResult is the payload of a successful login. User arrives with
// the cart fully hydrated.
type LoginResult struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

// Signup registers a new account. The server mails a one-time password
// to the given address, so there is nothing secret to return here.
func (c *Client) Signup(ctx context.Context, name, email string) (user.User, error) {
	in := map[string]string{"name": name, "email": email}
	var out user.User
	if err := c.do(ctx, http.MethodPost, "/api/v1/signup", "", in, &out); err != nil {
		return user.User{}, err
	}
	return out, nil
}

// Login exchanges credentials for a bearer token and the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/login", "", in, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// GetUser fetches a profile with cart hydrated. Requires the requester
// to be the same user or an admin.
func (c *Client) GetUser(ctx context.Context, token string, id int64) (user.User, error) {
	var out user.User
	path := fmt.Sprintf("/api/v1/users/%d", id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return user.User{}, err
	}
	return out, nil
}

// GetUsers lists all accounts. Admin only.
func (c *Client) GetUsers(ctx context.Context, token string) ([]user.User, error) {
	var out []user.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetLanguage stores the preferred interface language ("ru" or "en")
// in a cookie kept by the client's jar.
func (c *Client) SetLanguage(ctx context.Context, lang string) error {
	in := map[string]string{"lang": lang}
	return c.do(ctx, http.MethodPost, "/api/v1/language", "", in, nil)
}
