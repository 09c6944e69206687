/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Seednode/brainbox/games"
	"github.com/Seednode/brainbox/store"
)

type Config struct {
	bind             string
	dataDir          string
	feedbackDuration time.Duration
	port             int
	prefix           string
	profile          bool
	revealDelay      time.Duration
	sessionTimeout   time.Duration
	store            string
	tlsCert          string
	tlsKey           string
	verbose          bool
	version          bool

	logger *slog.Logger
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if !slices.Contains(store.Kinds, strings.ToLower(c.store)) {
		return fmt.Errorf("invalid store (must be one of %s): %s", strings.Join(store.Kinds, ", "), c.store)
	}
	if c.store != "memory" && strings.TrimSpace(c.dataDir) == "" {
		return fmt.Errorf("--data-dir is required for the %s store", c.store)
	}
	if c.revealDelay <= 0 {
		return fmt.Errorf("invalid reveal delay (must be positive): %s", c.revealDelay)
	}
	if c.feedbackDuration <= 0 {
		return fmt.Errorf("invalid feedback duration (must be positive): %s", c.feedbackDuration)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BRAINBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "brainbox",
		Short:         "Memory, spelling, and arithmetic mini-games with persistent high scores, in a single webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.store = strings.ToLower(cfg.store)
			if err := cfg.validate(); err != nil {
				return err
			}
			cfg.logger = newLogger(cfg)
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BRAINBOX_BIND)")
	fs.StringVarP(&cfg.dataDir, "data-dir", "d", ".", "directory holding the high score record (env: BRAINBOX_DATA_DIR)")
	fs.DurationVar(&cfg.feedbackDuration, "feedback-duration", 2*time.Second, "how long feedback banners stay visible (env: BRAINBOX_FEEDBACK_DURATION)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: BRAINBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: BRAINBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: BRAINBOX_PROFILE)")
	fs.DurationVar(&cfg.revealDelay, "reveal-delay", games.DefaultRevealDelay, "how long a flipped memory pair stays face up (env: BRAINBOX_REVEAL_DELAY)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle player sessions are ended (env: BRAINBOX_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.store, "store", "file", "high score storage: memory, file, or sqlite (env: BRAINBOX_STORE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: BRAINBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: BRAINBOX_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: BRAINBOX_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: BRAINBOX_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("brainbox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
