package main

import (
	"github.com/spf13/cobra"

	"github.com/kofany/enemy/pkg/enemylog"
	"github.com/kofany/enemy/pkg/proxypool"
)

// newClearCmd empties a pool. In this single-shot CLI there is nothing
// persisted to clear, so it simply prints the status of a fresh, empty
// pool — the same "proxy clear" verb an in-process bouncer would apply to
// its long-lived Pool value.
func newClearCmd(log *enemylog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the proxy pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool := proxypool.New()
			pool.Clear()
			log.Info("pool cleared")
			return printStatus(pool)
		},
	}
}
