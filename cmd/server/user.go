package main

import (
	"errors"
	"fmt"

	"github.com/goware/emailx"
	"github.com/spf13/cobra"

	"github.com/mmynk/superlists/internal/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Create a user account without a login link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := emailx.Normalize(args[0])
		if err := emailx.ValidateFast(email); err != nil {
			return fmt.Errorf("invalid email %q: %w", args[0], err)
		}

		ctx := cmd.Context()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		existing, err := store.GetUserByEmail(ctx, email)
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "user %s already exists (%s)\n", email, existing.ID)
			return nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		user := models.NewUser(email)
		if err := store.CreateUser(ctx, user); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", email, user.ID)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userAddCmd)
}
