package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/casebook/pkg/core"
)

var loginName string

var loginCmd = &cobra.Command{
	Use:   "login [id]",
	Short: "Sign in as an identity",
	Long:  `Login remembers an identity for later commands. There is no password; any id is accepted.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(false)
		defer svc.Close()

		id, err := svc.Session.SignIn(context.Background(), args[0], loginName)
		if err != nil {
			fatal("Error signing in", err)
		}
		fmt.Printf("Signed in as %s (%s)\n", id.DisplayName, id.ID)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in identity",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(true)
		defer svc.Close()

		if err := svc.Session.SignOut(context.Background()); err != nil {
			fatal("Error signing out", err)
		}
		fmt.Println("Signed out")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(true)
		defer svc.Close()

		id, err := svc.Session.Current(context.Background())
		if errors.Is(err, core.ErrNoSession) {
			fmt.Println("Not signed in")
			return
		}
		if err != nil {
			fatal("Error reading session", err)
		}
		fmt.Printf("%s (%s)\n", id.DisplayName, id.ID)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	loginCmd.Flags().StringVar(&loginName, "name", "", "Display name (defaults to the id)")
}
