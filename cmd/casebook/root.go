package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/casebook"
	"github.com/aretw0/casebook/pkg/core"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "casebook",
	Short: "Keep image-analysis cases and notes, and export them as reports",
	Long: `casebook stores analyzed images ("cases") and free-form notes per user
in a local store, and renders cases as plain-text or PDF reports.

Settings come from flags, CASEBOOK_* environment variables, or a
casebook.yaml file in the store directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := loadConfig(cmd); err != nil {
			fatal("Error reading configuration", err)
		}

		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("store", "s", "", "Store directory (default: nearest store above the working directory)")
	rootCmd.PersistentFlags().String("adapter", "fs", "Storage adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().Int64("quota", core.DefaultQuota, "Store byte budget (negative disables it)")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail on corrupt stored data instead of treating it as empty")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
}

// openService opens the configured store. With mustExist the store has to be
// there already; otherwise it is created in the working directory.
func openService(mustExist bool) *casebook.Service {
	svc, err := casebook.Open(storePath(),
		casebook.WithAdapter(viper.GetString("adapter")),
		casebook.WithQuota(viper.GetInt64("quota")),
		casebook.WithStrictDecoding(viper.GetBool("strict")),
		casebook.WithMustExist(mustExist),
		casebook.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Error opening store", err)
	}
	openedService = svc
	return svc
}

// requireIdentity returns the signed-in identity or exits.
func requireIdentity(ctx context.Context, svc *casebook.Service) casebook.Identity {
	id, err := svc.Session.Current(ctx)
	if errors.Is(err, core.ErrNoSession) {
		fatal("Error", fmt.Errorf("not signed in, run `casebook login <id>` first"))
	}
	if err != nil {
		fatal("Error reading session", err)
	}
	return id
}
