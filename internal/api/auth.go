package api

import (
	"context"
	"net/http"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// RecoverPasswordRequest is the body of PUT /auth/recover-password
type RecoverPasswordRequest struct {
	Email     string `json:"email"`
	NovaSenha string `json:"nova_senha"`
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, senha string) (Result, error) {
	return c.doJSON(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Senha: senha})
}

// Me fetches the current user
func (c *Client) Me(ctx context.Context) (Result, error) {
	return c.doJSON(ctx, http.MethodGet, "/auth/me", nil)
}

// Register creates an account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Result, error) {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", req)
}

// RecoverPassword replaces the password of the account with the given email
func (c *Client) RecoverPassword(ctx context.Context, email, novaSenha string) (Result, error) {
	return c.doJSON(ctx, http.MethodPut, "/auth/recover-password", RecoverPasswordRequest{Email: email, NovaSenha: novaSenha})
}
