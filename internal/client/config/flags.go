package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags. Only
// the flags listed in doc.go are considered; subcommand words pass through.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-timeout", "-token"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "server base URL")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "bearer token")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	return nil
}

// Positional returns the arguments that are neither client flags nor their
// values, e.g. the subcommand name.
func Positional(args []string) []string {
	withValue := map[string]bool{"-s": true, "-timeout": true, "-token": true, "-c": true, "-config": true}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if len(a) > 0 && a[0] == '-' {
			if withValue[a] && i+1 < len(args) {
				i++
			}
			continue
		}
		out = append(out, a)
	}
	return out
}
