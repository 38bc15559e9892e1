package resend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/inkwell/pkg/mailer"
)

func TestAddresses(t *testing.T) {
	t.Parallel()

	assert.Nil(t, addresses(nil))
	assert.Equal(t,
		[]string{"Jan <jan@example.com>", "piet@example.com"},
		addresses([]mailer.Address{{Name: "Jan", Email: "jan@example.com"}, {Email: "piet@example.com"}}),
	)
}
