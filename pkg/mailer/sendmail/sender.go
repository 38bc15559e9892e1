// Package sendmail delivers mailer.Email values through a local sendmail
// binary, which reads the recipients from the message headers.
package sendmail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/dmitrymomot/inkwell/pkg/mailer"
)

// ErrFailed reports a sendmail exit error or unexpected output.
var ErrFailed = errors.New("sendmail: failed")

// Config locates the sendmail binary.
type Config struct {
	Path string `env:"SENDMAIL_PATH" envDefault:"/usr/sbin/sendmail"`
}

// Sender implements mailer.Sender.
type Sender struct {
	path string
	now  func() time.Time
}

func New(cfg Config) *Sender {
	return &Sender{path: cfg.Path, now: time.Now}
}

// Send pipes the message to "sendmail -t -i -f <return path>". Any output
// from sendmail is treated as a failure.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	args := []string{"-t", "-i"}
	if rp := email.ReturnPath(); rp != "" {
		args = append(args, "-f", rp)
	}

	cmd := exec.CommandContext(ctx, s.path, args...)
	cmd.Stdin = bytes.NewReader(email.Bytes(s.now()))
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	msg := strings.TrimSpace(out.String())
	switch {
	case err != nil:
		return fmt.Errorf("%w: %w: %s", ErrFailed, err, msg)
	case msg != "":
		return fmt.Errorf("%w: %s", ErrFailed, msg)
	}
	return nil
}
