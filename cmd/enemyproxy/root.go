// Command enemyproxy drives the proxy-pool core from the command line: load
// a proxy list, validate it against a test destination, and print or save
// the results. The package mirrors the control surface an IRC clone-bouncer
// would expose as the "proxy" family of bot commands.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kofany/enemy/pkg/enemylog"
	"github.com/kofany/enemy/pkg/proxypool"
)

var (
	flagType        string
	flagCheck       bool
	flagNoCheck     bool
	flagConcurrency int
	flagTimeoutMS   int
	flagSave        string
	flagTestHost    string
	flagTestPort    int
)

func newRootCmd(log *enemylog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy [file]",
		Short: "Load and validate an upstream proxy pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return printStatus(proxypool.New())
			}
			return loadAndMaybeValidate(cmd.Context(), log, args[0])
		},
	}

	cmd.PersistentFlags().StringVar(&flagType, "type", "", "fallback proxy type when a line has no scheme (http, https, socks4, socks5)")
	cmd.PersistentFlags().BoolVar(&flagCheck, "check", false, "validate the pool after loading")
	cmd.PersistentFlags().BoolVar(&flagNoCheck, "no-check", false, "skip validation after loading")
	cmd.PersistentFlags().IntVar(&flagConcurrency, "concurrency", proxypool.DefaultConcurrency, "validator worker count (1-128)")
	cmd.PersistentFlags().IntVar(&flagTimeoutMS, "timeout", int(proxypool.DefaultTimeout/time.Millisecond), "per-attempt timeout in milliseconds (100-60000)")
	cmd.PersistentFlags().StringVar(&flagSave, "save", "", "write validated proxies to this file")
	cmd.PersistentFlags().StringVar(&flagTestHost, "test-host", proxypool.DefaultTestHost, "validation test destination host")
	cmd.PersistentFlags().IntVar(&flagTestPort, "test-port", proxypool.DefaultTestPort, "validation test destination port (1-65535)")

	cmd.AddCommand(newCheckCmd(log), newClearCmd(log))
	return cmd
}

func loadAndMaybeValidate(ctx context.Context, log *enemylog.Logger, file string) error {
	defaultType := proxypool.None
	if flagType != "" {
		t, ok := proxypool.ParseType(flagType)
		if !ok {
			return fmt.Errorf("unknown --type %q", flagType)
		}
		defaultType = t
	}

	pool := proxypool.New()
	if err := pool.Load(file, defaultType); err != nil {
		return err
	}
	log.Info("loaded proxy file", "file", file, "count", pool.Count())

	if flagNoCheck {
		return printStatus(pool)
	}
	if flagCheck || flagSave != "" {
		validate(ctx, log, pool)
	}
	if flagSave != "" {
		if err := pool.SaveValidated(flagSave); err != nil {
			return err
		}
		log.Info("saved validated proxies", "file", flagSave)
	}
	return printStatus(pool)
}

func validate(ctx context.Context, log *enemylog.Logger, pool *proxypool.Pool) {
	opts := proxypool.ValidateOptions{
		Concurrency: flagConcurrency,
		Timeout:     time.Duration(flagTimeoutMS) * time.Millisecond,
		TestHost:    flagTestHost,
		TestPort:    flagTestPort,
	}
	proxypool.Validate(ctx, pool, opts, log)
}

func printStatus(pool *proxypool.Pool) error {
	s := pool.Stats()
	fmt.Printf("total=%d active=%d validated=%d http=%d https=%d socks4=%d socks5=%d\n",
		s.Total, s.Active, s.Validated, s.PerType[proxypool.HTTP], s.PerType[proxypool.HTTPS],
		s.PerType[proxypool.SOCKS4], s.PerType[proxypool.SOCKS5])
	return nil
}
