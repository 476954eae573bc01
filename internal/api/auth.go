package api

import (
	"context"

	"github.com/kopeyka/receipt-service/internal/wire"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account creation payload.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (wire.Token, error) {
	var token wire.Token
	err := c.postJSON(ctx, "/auth/login", creds, &token)
	return token, err
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg Registration) (wire.User, error) {
	var user wire.User
	err := c.postJSON(ctx, "/auth/register", reg, &user)
	return user, err
}

// CurrentUser returns the account behind the current token.
func (c *Client) CurrentUser(ctx context.Context) (wire.User, error) {
	var user wire.User
	err := c.get(ctx, "/users/me", nil, &user)
	return user, err
}
