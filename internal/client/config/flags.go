package config

import (
	"flag"
	"time"

	"github.com/BraisonWabwire/shopke-cli/internal/flagx"
)

// applyFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the commerce API
//	-s string   path to the shared session database
//	-i int      cart poll interval in seconds
//	-w int      session watch interval in seconds
//
// Args are filtered to the flags handled here so parsing doesn't trip over
// the config-file flags consumed elsewhere.
func applyFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-i", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the commerce API")
	fs.StringVar(&cfg.SessionDBPath, "s", cfg.SessionDBPath, "path to the shared session database")
	pollSecs := fs.Int("i", int(cfg.CartPollInterval.Seconds()), "cart poll interval (in seconds)")
	watchSecs := fs.Int("w", int(cfg.SessionWatchInterval.Seconds()), "session watch interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.CartPollInterval = time.Duration(*pollSecs) * time.Second
	cfg.SessionWatchInterval = time.Duration(*watchSecs) * time.Second
}
