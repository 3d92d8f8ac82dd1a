package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/casebook"
	"github.com/aretw0/casebook/internal/platform"
)

// loadConfig layers flags over CASEBOOK_* variables over casebook.yaml.
func loadConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("casebook")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	viper.SetConfigName(strings.TrimSuffix(platform.ConfigFilename, ".yaml"))
	viper.SetConfigType("yaml")
	viper.AddConfigPath(storePath())

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}
	return nil
}

// storePath is the --store value, or the nearest store root above the working
// directory, or the working directory itself.
func storePath() string {
	if p := viper.GetString("store"); p != "" {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root, err := casebook.FindStoreRoot(wd); err == nil {
		return root
	}
	return wd
}
