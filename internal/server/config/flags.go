package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret key
//	-t int      token validity, minutes
//	-k int      KDF cost for new credentials (0 = algorithm default)
//	-w int      KDF worker count
//	-m int      minimum password length (default 6)
//	-l string   log level
//
// os.Args is filtered through flagx.FilterArgs first, so flags owned by
// other components (such as -c) do not cause errors here.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-k", "-w", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.IntVar(&config.KDFIterations, "k", config.KDFIterations, "KDF cost: PBKDF2 iterations or argon2id time cost (1-10); 0 picks the algorithm default")
	fs.IntVar(&config.KDFWorkers, "w", config.KDFWorkers, "KDF workers")
	fs.IntVar(&config.MinPasswordLength, "m", config.MinPasswordLength, "minimum password length, in characters")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	// Only override the TTL when -t was given; sub-minute values from JSON or
	// the environment would otherwise be rounded away.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
		}
	})

	return nil
}
