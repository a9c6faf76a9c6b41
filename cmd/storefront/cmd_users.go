package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

var adminInput services.UserInput

// storefront user:create-admin
var createAdminCmd = &cobra.Command{
	Use:   "user:create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		k, err := kernel.Boot(ctx, true, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer k.Close(ctx)

		in := adminInput
		in.Role = auth.RoleAdmin
		if in.FullName == "" {
			in.FullName = in.Username
		}
		u, err := k.Services.Users.CreateUser(ctx, in)
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				for field, msg := range verr.Fields {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
				}
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s <%s> created with id %s\n", u.Username, u.Email, u.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminInput.Username, "username", "", "Login name")
	f.StringVar(&adminInput.Email, "email", "", "E-mail address")
	f.StringVar(&adminInput.Password, "password", "", "Password (8 to 72 characters)")
	f.StringVar(&adminInput.FullName, "name", "", "Full name (defaults to the username)")
	createAdminCmd.MarkFlagRequired("username") //nolint:errcheck
	createAdminCmd.MarkFlagRequired("email")    //nolint:errcheck
	createAdminCmd.MarkFlagRequired("password") //nolint:errcheck
}
