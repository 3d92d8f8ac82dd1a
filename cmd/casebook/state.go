package main

import (
	"github.com/spf13/cobra"
)

var stateOutput outputFormat

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the internal state of the store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(true)
		defer svc.Close()

		if !stateOutput.json {
			stateOutput.yaml = true
		}
		stateOutput.structured(map[string]any{
			svc.ComponentType(): svc.State(),
		})
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().BoolVar(&stateOutput.json, "json", false, "Output in JSON format")
}
