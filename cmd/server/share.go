package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/superlists/internal/lists"
)

var shareCmd = &cobra.Command{
	Use:   "share <list-id> <email>",
	Short: "Share a list with an existing user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := lists.NewService(store).ShareList(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "shared list %s with %s\n", args[0], args[1])
		return nil
	},
}
