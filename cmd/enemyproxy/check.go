package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kofany/enemy/pkg/enemylog"
	"github.com/kofany/enemy/pkg/proxypool"
)

// newCheckCmd re-validates a freshly loaded pool. A standalone CLI
// invocation has no persistent pool to re-check across processes, so it
// takes the same file argument the root "proxy" verb does and always runs
// the validation sweep.
func newCheckCmd(log *enemylog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Re-validate a proxy pool loaded from file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultType := proxypool.None
			if flagType != "" {
				t, ok := proxypool.ParseType(flagType)
				if !ok {
					return fmt.Errorf("unknown --type %q", flagType)
				}
				defaultType = t
			}
			pool := proxypool.New()
			if err := pool.Load(args[0], defaultType); err != nil {
				return err
			}
			validate(cmd.Context(), log, pool)
			if flagSave != "" {
				if err := pool.SaveValidated(flagSave); err != nil {
					return err
				}
			}
			return printStatus(pool)
		},
	}
}
