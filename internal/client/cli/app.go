package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// APIClient is the subset of api.Client the commands use.
type APIClient interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*api.Token, error)
	Me(ctx context.Context, token string) (*api.Identity, error)
	Ping(ctx context.Context) error
}

type App struct {
	config   *config.Config
	client   APIClient
	reader   *bufio.Reader
	out      io.Writer
	token    string
	userName string

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) *App {
	return newApp(c, api.NewClient(c.ServerURL, c.Timeout), os.Stdin, os.Stdout)
}

func newApp(c *config.Config, client APIClient, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		client: client,
		reader: bufio.NewReader(in),
		out:    out,
		token:  c.Token,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	changed := a.mode != mode
	a.mode = mode
	return changed
}

// checkOnline pings the server once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
