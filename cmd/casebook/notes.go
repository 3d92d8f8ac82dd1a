package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	noteTitle   string
	noteContent string
	notesOutput outputFormat
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Add, list and delete your notes",
}

var notesAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a note",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := openService(false)
		defer svc.Close()

		id := requireIdentity(ctx, svc)
		content := noteContent
		if content == "" {
			content = strings.Join(args, " ")
		}

		n, err := svc.Notes.Create(ctx, id.ID, noteTitle, content)
		if err != nil {
			fatal("Error adding note", err)
		}
		fmt.Printf("Note saved: %s (%s)\n", n.Title, n.ID)
	},
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := openService(true)
		defer svc.Close()

		id := requireIdentity(ctx, svc)
		notes, err := svc.Notes.ListFor(ctx, id.ID)
		if err != nil {
			fatal("Error listing notes", err)
		}

		if notesOutput.structured(notes) {
			return
		}
		if len(notes) == 0 {
			fmt.Println("No notes yet")
			return
		}
		for _, n := range notes {
			fmt.Printf("%s  %s\n    %s\n", n.ID, n.Title, n.Content)
		}
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := openService(true)
		defer svc.Close()

		id := requireIdentity(ctx, svc)
		notes, err := svc.Notes.ListFor(ctx, id.ID)
		if err != nil {
			fatal("Error deleting note", err)
		}
		owned := false
		for _, n := range notes {
			if n.ID == args[0] {
				owned = true
				break
			}
		}
		if !owned {
			fatal("Error deleting note", fmt.Errorf("no note %s", args[0]))
		}

		if err := svc.Notes.DeleteByID(ctx, args[0]); err != nil {
			fatal("Error deleting note", err)
		}
		fmt.Printf("Note deleted: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesDeleteCmd)

	notesAddCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title")
	notesAddCmd.Flags().StringVarP(&noteContent, "content", "c", "", "Note content (or pass it as arguments)")
	notesListCmd.Flags().BoolVar(&notesOutput.json, "json", false, "Output in JSON format")
	notesListCmd.Flags().BoolVar(&notesOutput.yaml, "yaml", false, "Output in YAML format")
}
