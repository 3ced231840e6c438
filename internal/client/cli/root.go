package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// OnlineCheckInterval is how often the REPL refreshes the server status.
const OnlineCheckInterval = 5 * time.Second

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}

// Run executes a single subcommand, or starts the REPL when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Root(ctx)
		return nil
	}

	switch args[0] {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	default:
		return fmt.Errorf("unknown command %q (want register, login or whoami)", args[0])
	}
}

// Root runs the interactive loop until exit or end of input.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to taskkeeper CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, OnlineCheckInterval)

	// Commands prompt through the same reader, so lines are read one at a
	// time rather than through a buffering scanner.
	for {
		fmt.Fprintf(a.out, "tk %s> ", a.getStatus())
		line, readErr := a.reader.ReadString('\n')
		if line == "" && readErr != nil {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var err error
		switch cmd := parts[0]; cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: register, login, whoami, logout, exit")
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "logout":
			a.Logout()
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}
