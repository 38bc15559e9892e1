package storage

import "time"

// Option configures Put.
type Option func(*putOptions)

type putOptions struct {
	key         string
	prefix      string
	contentType string
	acl         ACL
	rules       []ValidationRule
}

// WithKey stores the file under key instead of a generated one.
func WithKey(key string) Option {
	return func(o *putOptions) { o.key = key }
}

// WithPrefix places generated keys under prefix, as "prefix/<ulid>.<ext>".
func WithPrefix(prefix string) Option {
	return func(o *putOptions) { o.prefix = prefix }
}

// WithContentType skips detection from the leading bytes.
func WithContentType(ct string) Option {
	return func(o *putOptions) { o.contentType = ct }
}

func WithACL(acl ACL) Option {
	return func(o *putOptions) { o.acl = acl }
}

// WithValidation rejects the upload before it is sent when a rule fails.
func WithValidation(rules ...ValidationRule) Option {
	return func(o *putOptions) { o.rules = append(o.rules, rules...) }
}

// URLOption configures URL.
type URLOption func(*urlOptions)

type urlOptions struct {
	expiry      time.Duration
	forceSigned bool
}

// WithSigned forces a pre-signed URL valid for expiry (default 15m).
func WithSigned(expiry time.Duration) URLOption {
	return func(o *urlOptions) {
		o.forceSigned = true
		if expiry > 0 {
			o.expiry = expiry
		}
	}
}
