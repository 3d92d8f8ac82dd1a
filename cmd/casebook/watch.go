package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/casebook/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print changes to the store as they happen",
	Long: `Watch reports every change to the store's keys, including changes made by
other casebook processes. Writers do not coordinate: the last write wins.
The optional pattern is a glob over key names, e.g. "user*".`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := openService(true)
		defer svc.Close()

		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}

		events, err := svc.Watch(ctx, pattern)
		if err != nil {
			fatal("Error watching store", err)
		}

		src := lifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Error watching store", err)
		}

		fmt.Println("Watching for changes (Ctrl+C to stop)")
		for e := range src.Events() {
			fmt.Printf("%s  %s\n", time.Now().Format(time.TimeOnly), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
