package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPasswords makes promptPassword return the given passwords in order. The
// returned slices are the ones handed to the command, so tests can check
// they were wiped.
func stubPasswords(t *testing.T, passwords ...string) *[][]byte {
	t.Helper()
	handed := &[][]byte{}
	orig := promptPassword
	promptPassword = func(_ io.Writer) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, errors.New("no more passwords")
		}
		pw := []byte(passwords[0])
		passwords = passwords[1:]
		*handed = append(*handed, pw)
		return pw, nil
	}
	t.Cleanup(func() { promptPassword = orig })
	return handed
}

type fakeClient struct {
	regUser string
	regPass string
	regErr  error

	loginUser string
	loginErr  error

	meToken string
	meErr   error

	pingErr error
}

func (f *fakeClient) Register(_ context.Context, user string, pass []byte) error {
	f.regUser, f.regPass = user, string(pass)
	return f.regErr
}

func (f *fakeClient) Login(_ context.Context, user string, _ []byte) (*api.Token, error) {
	f.loginUser = user
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &api.Token{AccessToken: "tok-" + user, TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeClient) Me(_ context.Context, token string) (*api.Identity, error) {
	f.meToken = token
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &api.Identity{Username: strings.TrimPrefix(token, "tok-"), ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func newTestApp(client APIClient, input string, token string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Token = token
	return newApp(cfg, client, strings.NewReader(input), out), out
}

func TestRegister(t *testing.T) {
	handed := stubPasswords(t, "s3cret!xy")
	fc := &fakeClient{}
	a, out := newTestApp(fc, "alice\n", "")

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "alice", fc.regUser)
	assert.Equal(t, "s3cret!xy", fc.regPass)
	assert.Contains(t, out.String(), "Registered alice")
	assert.Equal(t, make([]byte, len("s3cret!xy")), (*handed)[0], "password must be wiped")
}

func TestRegister_Conflict(t *testing.T) {
	stubPasswords(t, "s3cret!xy")
	a, _ := newTestApp(&fakeClient{regErr: api.ErrConflict}, "alice\n", "")

	err := a.Register(context.Background())
	assert.ErrorIs(t, err, api.ErrConflict)
	assert.ErrorContains(t, err, `user "alice" already exists`)
}

func TestRegister_BlankUserName(t *testing.T) {
	handed := stubPasswords(t, "s3cret!xy")
	fc := &fakeClient{}
	a, _ := newTestApp(fc, "  \n", "")

	err := a.Register(context.Background())
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, fc.regUser)
	assert.Empty(t, *handed, "password must not be asked for")
}

func TestLoginThenWhoAmI(t *testing.T) {
	stubPasswords(t, "s3cret!xy")
	fc := &fakeClient{}
	a, out := newTestApp(fc, "alice\n", "")

	require.ErrorIs(t, a.WhoAmI(context.Background()), ErrNotLoggedIn)

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "tok-alice", a.token)
	assert.Contains(t, out.String(), "Logged in as alice")
	assert.Contains(t, out.String(), "tok-alice\n")

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Equal(t, "tok-alice", fc.meToken)

	a.Logout()
	assert.ErrorIs(t, a.WhoAmI(context.Background()), ErrNotLoggedIn)
}

func TestLogin_Unauthorized(t *testing.T) {
	stubPasswords(t, "wrong")
	a, _ := newTestApp(&fakeClient{loginErr: api.ErrUnauthorized}, "alice\n", "")

	err := a.Login(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, a.token)
}

func TestWhoAmI_TokenFromConfig(t *testing.T) {
	fc := &fakeClient{}
	a, out := newTestApp(fc, "", "tok-bob")

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Equal(t, "tok-bob", fc.meToken)
	assert.Contains(t, out.String(), "bob")
}

func TestWhoAmI_Rejected(t *testing.T) {
	a, _ := newTestApp(&fakeClient{meErr: api.ErrUnauthorized}, "", "expired")

	err := a.WhoAmI(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.ErrorContains(t, err, "token rejected")
}
