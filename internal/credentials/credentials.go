// Package credentials resolves the portal login used by the download path.
// Sources are tried in order by a Chain: environment, OS keyring, then an
// interactive prompt.
package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/betterment-ynab/internal/logging"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

// PasswordEnv is the environment variable read by EnvSource.
const PasswordEnv = "BYNAB_PASSWORD"

// ErrUnavailable is returned by a source that holds no credentials.
var ErrUnavailable = errors.New("credentials unavailable")

// Credentials is a portal login.
type Credentials struct {
	User     string
	Password string
}

// Source supplies credentials.
type Source interface {
	Name() string
	Credentials(ctx context.Context) (Credentials, error)
}

// EnvSource reads the password from PasswordEnv for a configured user.
type EnvSource struct {
	User   string
	Lookup func(key string) (string, bool)
}

func (s EnvSource) Name() string { return "env" }

func (s EnvSource) Credentials(_ context.Context) (Credentials, error) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	password, ok := lookup(PasswordEnv)
	if !ok || password == "" || s.User == "" {
		return Credentials{}, fmt.Errorf("%s not set: %w", PasswordEnv, ErrUnavailable)
	}
	return Credentials{User: s.User, Password: password}, nil
}

// KeyringSource reads the password stored in the OS keyring under Service
// for User.
type KeyringSource struct {
	Service string
	User    string
}

func (s KeyringSource) Name() string { return "keyring" }

func (s KeyringSource) Credentials(_ context.Context) (Credentials, error) {
	if s.Service == "" || s.User == "" {
		return Credentials{}, fmt.Errorf("keyring service or user not configured: %w", ErrUnavailable)
	}
	password, err := keyring.Get(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return Credentials{}, fmt.Errorf("password not found in keyring %q: %w", s.Service, ErrUnavailable)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read keyring %q: %w", s.Service, err)
	}
	return Credentials{User: s.User, Password: password}, nil
}

// PromptSource asks for the username (unless User is set) and the password.
// The password is read without echo when In is a terminal.
type PromptSource struct {
	User string
	In   io.Reader
	Out  io.Writer
}

func (s PromptSource) Name() string { return "prompt" }

func (s PromptSource) Credentials(ctx context.Context) (Credentials, error) {
	in, out := s.In, s.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	reader := bufio.NewReader(in)

	user := s.User
	if user == "" {
		_, _ = fmt.Fprint(out, "Betterment username: ")
		line, err := readLine(reader)
		if err != nil {
			return Credentials{}, fmt.Errorf("failed to read username: %w", err)
		}
		user = line
	}
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}

	_, _ = fmt.Fprint(out, "Betterment password: ")
	password, err := readPassword(in, reader)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read password: %w", err)
	}
	if user == "" || password == "" {
		return Credentials{}, fmt.Errorf("empty username or password: %w", ErrUnavailable)
	}
	return Credentials{User: user, Password: password}, nil
}

func readPassword(in io.Reader, buffered *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { // #nosec G115 -- file descriptors fit in int
		b, err := term.ReadPassword(int(f.Fd())) // #nosec G115
		return string(b), err
	}
	return readLine(buffered)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Chain tries each source in order and returns the first credentials found.
type Chain struct {
	sources []Source
	logger  logging.Logger
}

// NewChain returns a Chain over sources.
func NewChain(logger logging.Logger, sources ...Source) *Chain {
	return &Chain{sources: sources, logger: logger}
}

func (c *Chain) Name() string { return "chain" }

// Credentials returns the first source's credentials that resolve. A source
// failing for any reason other than ErrUnavailable is logged and skipped too;
// the returned error joins every failure.
func (c *Chain) Credentials(ctx context.Context) (Credentials, error) {
	var errs []error
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return Credentials{}, err
		}
		creds, err := src.Credentials(ctx)
		if err == nil {
			c.logger.Debug("Resolved credentials",
				logging.Field{Key: logging.FieldCredentials, Value: src.Name()})
			return creds, nil
		}
		c.logger.Warn(err.Error(),
			logging.Field{Key: logging.FieldCredentials, Value: src.Name()})
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}
	if len(errs) == 0 {
		return Credentials{}, ErrUnavailable
	}
	return Credentials{}, errors.Join(errs...)
}
