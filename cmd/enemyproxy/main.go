package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kofany/enemy/pkg/enemylog"
)

func main() {
	log, err := enemylog.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := newRootCmd(log).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
