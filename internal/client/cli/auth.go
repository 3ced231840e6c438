package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

var ErrNotLoggedIn = errors.New("not logged in")

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := promptLine(a.reader, a.out, "User name")
	if err != nil {
		return "", nil, err
	}

	password, err := promptPassword(a.out)
	if err != nil {
		return "", nil, err
	}

	return userName, password, nil
}

func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, userName, password); err != nil {
		if errors.Is(err, api.ErrConflict) {
			return fmt.Errorf("user %q already exists: %w", userName, err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Registered %s\n", userName)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.client.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("login failed: %w", err)
		}
		return err
	}

	a.token = token.AccessToken
	a.userName = userName

	fmt.Fprintf(a.out, "Logged in as %s, token valid until %s\n", userName, token.ExpiresAt.Local().Format(time.RFC1123))
	fmt.Fprintf(a.out, "%s\n", token.AccessToken)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if a.token == "" {
		return ErrNotLoggedIn
	}

	id, err := a.client.Me(ctx, a.token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("token rejected: %w", err)
		}
		return err
	}

	a.userName = id.Username
	fmt.Fprintf(a.out, "%s (token expires %s)\n", id.Username, id.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func (a *App) Logout() {
	a.token = ""
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
}
