package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/casebook"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of casebook",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("casebook version %s\n", casebook.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
