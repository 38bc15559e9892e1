package resend

// Config holds the Resend API credentials.
type Config struct {
	APIKey string `env:"RESEND_API_KEY"`
}
