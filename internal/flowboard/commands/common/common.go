package common

import (
	"fmt"
	"io"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/session"
)

// Runtime exposes the resolved CLI configuration to command packages.
// It is read lazily inside RunE so persistent flags have already been
// applied.
type Runtime interface {
	ServerURL() string
	Output() string
	Session() *session.Store
}

// PrintFunc renders a command result in the selected output format. A
// nil value prints the bare acknowledgement.
type PrintFunc func(output string, stdout io.Writer, value any) error

// WrapErrorFunc converts client errors into the CLI's exit error type.
type WrapErrorFunc func(err error) error

// UsageError is a problem caught before any request went out, like a
// missing login or an argument the flag parser cannot reject on its
// own. The CLI reports it as a 400.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

func Usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// NewClient builds an API client that reads its bearer token from the
// session file on every request, so commands pick up a login made
// earlier in the same process.
func NewClient(runtime Runtime) (*api.Client, error) {
	store := runtime.Session()
	return api.NewClient(runtime.ServerURL(), api.WithTokenSource(func() string {
		sess, err := store.Load()
		if err != nil {
			return ""
		}
		return sess.AccessToken
	}))
}
