// Package config loads the application settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/inkwell/pkg/db"
	"github.com/dmitrymomot/inkwell/pkg/job"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/mailer"
	"github.com/dmitrymomot/inkwell/pkg/mailer/resend"
	"github.com/dmitrymomot/inkwell/pkg/mailer/sendmail"
	"github.com/dmitrymomot/inkwell/pkg/oauth"
	"github.com/dmitrymomot/inkwell/pkg/redis"
	"github.com/dmitrymomot/inkwell/pkg/storage"
)

var (
	ErrLoad    = errors.New("config: failed to load")
	ErrInvalid = errors.New("config: invalid value")
)

// Mail transports accepted by APP_MAIL_TRANSPORT.
const (
	TransportSendmail = "sendmail"
	TransportResend   = "resend"
)

// App holds the settings that belong to the blog itself.
type App struct {
	Addr         string `env:"APP_ADDR" envDefault:":8080"`
	BaseURL      string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	Theme        string `env:"APP_THEME" envDefault:"default"`
	ThemesDir    string `env:"APP_THEMES_DIR" envDefault:"themes"`
	Locale       string `env:"APP_LOCALE" envDefault:"nl"`
	CookieSecret string `env:"APP_COOKIE_SECRET,required"`
	// sendmail or resend
	MailTransport string `env:"APP_MAIL_TRANSPORT" envDefault:"sendmail"`
	SecureCookies bool   `env:"APP_SECURE_COOKIES" envDefault:"false"`
}

// Config is the full process configuration. Every package contributes its
// own struct; env parses nested structs without a prefix.
type Config struct {
	App      App
	DB       db.Config
	Redis    redis.Config
	Logger   logger.Config
	Mailer   mailer.Config
	Resend   resend.Config
	Sendmail sendmail.Config
	Storage  storage.Config
	OAuth    oauth.Config
	Job      job.Config
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, errors.Join(ErrLoad, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Join(ErrLoad, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.App.MailTransport {
	case TransportSendmail:
	case TransportResend:
		if c.Resend.APIKey == "" {
			return fmt.Errorf("%w: RESEND_API_KEY is required for the resend transport", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: APP_MAIL_TRANSPORT %q", ErrInvalid, c.App.MailTransport)
	}
	if len(c.App.CookieSecret) < 32 {
		return fmt.Errorf("%w: APP_COOKIE_SECRET must be at least 32 bytes", ErrInvalid)
	}
	return nil
}
