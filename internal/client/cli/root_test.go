package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Subcommands(t *testing.T) {
	stubPasswords(t, "s3cret!xy")
	fc := &fakeClient{}
	a, out := newTestApp(fc, "alice\n", "")

	require.NoError(t, a.Run(context.Background(), []string{"register"}))
	assert.Equal(t, "alice", fc.regUser)
	assert.Contains(t, out.String(), "Registered alice")

	err := a.Run(context.Background(), []string{"dance"})
	assert.ErrorContains(t, err, `unknown command "dance"`)
}

func TestRoot_Session(t *testing.T) {
	stubPasswords(t, "s3cret!xy", "s3cret!xy")
	fc := &fakeClient{}
	input := "help\nregister\nalice\nlogin\nalice\nwhoami\nfoo\nlogout\nwhoami\nexit\n"
	a, out := newTestApp(fc, input, "")

	a.Root(context.Background())

	s := out.String()
	assert.Contains(t, s, "Available commands")
	assert.Contains(t, s, "Registered alice")
	assert.Contains(t, s, "Logged in as alice")
	assert.Contains(t, s, "tk (alice online)> ")
	assert.Contains(t, s, "Unknown command: foo")
	assert.Contains(t, s, "Logged out")
	assert.Contains(t, s, "error: not logged in")
	assert.Contains(t, s, "Bye!")
	assert.Equal(t, ModeOnline, a.Mode())
}

func TestRoot_EndOfInput(t *testing.T) {
	a, out := newTestApp(&fakeClient{pingErr: assert.AnError}, "help", "")

	a.Root(context.Background())

	assert.Contains(t, out.String(), "tk (offline)> ")
	assert.Equal(t, ModeOffline, a.Mode())
}
