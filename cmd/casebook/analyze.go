package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/export"
)

var (
	analyzeName   string
	analyzeExport string
	analyzeOut    string
)

var uploadCmd = &cobra.Command{
	Use:   "upload [image]",
	Short: "Upload an image for analysis",
	Long:  `Upload stores a local image file in the store as the image awaiting analysis.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(false)
		defer svc.Close()

		if err := upload(context.Background(), svc.Upload, args[0]); err != nil {
			fatal("Error uploading image", err)
		}
		fmt.Printf("Uploaded %s\n", args[0])
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image]",
	Short: "Analyze the uploaded image and save the result as a case",
	Long: `Analyze runs object detection on the uploaded image and stores a new case
for the signed-in identity. Passing an image uploads it first.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := openService(false)
		defer svc.Close()

		id := requireIdentity(ctx, svc)
		if len(args) == 1 {
			if err := upload(ctx, svc.Upload, args[0]); err != nil {
				fatal("Error uploading image", err)
			}
		}

		c, err := svc.Analyze(ctx, id.ID, analyzeName)
		if err != nil {
			fatal("Error analyzing image", err)
		}

		fmt.Printf("Case saved: %s (%s)\n", c.Name, c.ID)
		fmt.Printf("Detected: %s\n", strings.Join(c.DetectedObjects, ", "))
		if c.Description != "" {
			fmt.Println(c.Description)
		}

		if analyzeExport != "" {
			path := exportDetection(c, analyzeExport, analyzeOut)
			fmt.Printf("Report written: %s\n", path)
		}
	},
}

// exportDetection writes the results report for a fresh analysis and returns its path.
func exportDetection(c core.Case, format, out string) string {
	now := time.Now()

	var data []byte
	switch format {
	case "pdf":
		detection := core.Detection{Objects: c.DetectedObjects, Description: c.Description}
		var err error
		data, err = export.DetectionDocument(detection, c.ImageRef, now)
		if err != nil {
			fatal("Error exporting results", err)
		}
	case "txt", "text":
		format = "txt"
		data = []byte(export.PlainText(c, now))
	default:
		fatal("Error exporting results", fmt.Errorf("unknown format %q (want txt or pdf)", format))
	}

	if out == "" {
		out = export.Filename(c.Name, format)
	}
	if err := export.WriteFile(out, data); err != nil {
		fatal("Error writing report", err)
	}
	return out
}

// upload reads a local file into a data URI. Anything that is not a readable
// file (e.g. an http URL) is stored as given.
func upload(ctx context.Context, store func(context.Context, string) error, ref string) error {
	data, err := os.ReadFile(ref)
	if err != nil {
		if strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
			return store(ctx, ref)
		}
		return err
	}
	return store(ctx, export.EncodeDataURI(data))
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "Case name (defaults to a timestamped name)")
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "Also write the results report: txt or pdf")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Report file (defaults to the case name)")
}
