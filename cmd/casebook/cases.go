package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/export"
)

var (
	casesSearch string
	casesOutput outputFormat

	exportFormat string
	exportOut    string
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List, delete and export your cases",
}

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your cases, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := openService(true)
		defer svc.Close()

		id := requireIdentity(ctx, svc)

		var cases []core.Case
		var err error
		if casesSearch != "" {
			cases, err = svc.Cases.Search(ctx, id.ID, casesSearch)
		} else {
			cases, err = svc.Cases.ListFor(ctx, id.ID)
		}
		if err != nil {
			fatal("Error listing cases", err)
		}

		if casesOutput.structured(cases) {
			return
		}
		if len(cases) == 0 {
			fmt.Println("No cases yet")
			return
		}
		for _, c := range cases {
			fmt.Printf("%s  %s  %s (%d objects)\n",
				c.ID, c.CreatedAt.Local().Format(export.DateLayout), c.Name, len(c.DetectedObjects))
		}
	},
}

var casesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one of your cases",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := openService(true)
		defer svc.Close()

		id := requireIdentity(ctx, svc)
		// Only delete what the signed-in identity owns.
		if _, err := svc.Cases.Get(ctx, id.ID, args[0]); err != nil {
			fatal("Error deleting case", err)
		}
		if err := svc.Cases.DeleteByID(ctx, args[0]); err != nil {
			fatal("Error deleting case", err)
		}
		fmt.Printf("Case deleted: %s\n", args[0])
	},
}

var casesExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a case as a text or PDF report",
	Long: `Export renders one of your cases as a report. The file is named after the
case unless --out is given; --out - writes to standard output.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := openService(true)
		defer svc.Close()

		id := requireIdentity(ctx, svc)
		c, err := svc.Cases.Get(ctx, id.ID, args[0])
		if err != nil {
			fatal("Error exporting case", err)
		}

		var data []byte
		now := time.Now()
		switch exportFormat {
		case "txt", "text":
			exportFormat = "txt"
			data = []byte(export.PlainText(c, now))
		case "pdf":
			data, err = export.Document(c, now)
			if err != nil {
				fatal("Error exporting case", err)
			}
		default:
			fatal("Error exporting case", fmt.Errorf("unknown format %q (want txt or pdf)", exportFormat))
		}

		if exportOut == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				fatal("Error writing report", err)
			}
			return
		}

		path := exportOut
		if path == "" {
			path = export.Filename(c.Name, exportFormat)
		}
		if err := export.WriteFile(path, data); err != nil {
			fatal("Error writing report", err)
		}
		fmt.Printf("Report written: %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(casesCmd)
	casesCmd.AddCommand(casesListCmd)
	casesCmd.AddCommand(casesDeleteCmd)
	casesCmd.AddCommand(casesExportCmd)

	casesListCmd.Flags().StringVar(&casesSearch, "search", "", "Only show cases whose name contains this text")
	casesListCmd.Flags().BoolVar(&casesOutput.json, "json", false, "Output in JSON format")
	casesListCmd.Flags().BoolVar(&casesOutput.yaml, "yaml", false, "Output in YAML format")

	casesExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Report format: txt or pdf")
	casesExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (- for stdout)")
}
