package mailer

// Config holds the sender identity and template defaults.
type Config struct {
	From            string `env:"MAILER_FROM" envDefault:"Inkwell <noreply@localhost>"`
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
}
