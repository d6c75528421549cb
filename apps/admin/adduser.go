package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ourson-app/backend/core"
	"github.com/ourson-app/backend/core/user"
)

func addUserCmd(cli *commandLine) *cobra.Command {
	var (
		name    string
		uname   string
		email   string
		isAdmin bool
	)

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user account, or reactivate an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.setup(); err != nil {
				return err
			}
			defer cli.teardown()

			pwd, err := promptPassword()
			if err != nil {
				return err
			}
			return cli.addUser(name, uname, email, pwd, isAdmin)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "The user's full name.")
	cmd.Flags().StringVar(&uname, "username", "", "The user's username.")
	cmd.Flags().StringVar(&email, "email", "", "The user's email. The password will be prompted next.")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "Grant all roles to the user.")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      core.CleanString(name),
			Username:  uname,
			Email:     email,
			Roles:     []string{user.RoleEditor},
			CreatedAt: now,
		}
		if isAdmin {
			usr.Roles = user.AllRoles
		}
		usr.IsActive = true
		usr.UpdatedAt = now
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}

	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = now
	active := true
	_, err = cli.usrRepo.UpdateUser(usr, &active)
	return err
}
