package config

import (
	"flag"
	"os"
	"time"

	"github.com/orcadive/divelog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-p string   Firestore project id (default from Config)
//	-d string   local cache DSN (default from Config)
//	-t int      remote request timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-p", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.FirestoreProjectID, "p", cfg.FirestoreProjectID, "Firestore project id")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "local cache DSN")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
