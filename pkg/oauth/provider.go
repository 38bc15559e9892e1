package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// UserInfo is the signed-in account as reported by the provider.
type UserInfo struct {
	ID      string
	Login   string
	Email   string
	Name    string
	Picture string
}

// Provider runs the authorization code flow against one identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
}
