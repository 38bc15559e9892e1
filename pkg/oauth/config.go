package oauth

// Config holds the GitHub OAuth application. Sign-in is disabled when
// ClientID is empty.
type Config struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET"`
	RedirectURL  string   `env:"GITHUB_OAUTH_REDIRECT_URL"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:","`
}

// Enabled reports whether a client is configured.
func (c Config) Enabled() bool { return c.ClientID != "" }
