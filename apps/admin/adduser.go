package main

import (
	"github.com/pkg/errors"

	"github.com/highschool/scheduler/core"
	"github.com/highschool/scheduler/core/user"
)

// addUser creates an active user, or reactivates and updates an existing one.
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		if usr, err = cli.usrRepo.GetUserByUsernameOrEmail(email); err != nil {
			if errors.Cause(err) != user.ErrNotFound {
				return err
			}
			usr = user.User{Name: uname, Username: uname, Email: email}
		}
	}

	if isAdmin {
		usr.Roles = []string{user.RoleAdminOwner}
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		usr.IsActive = true
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}
	active := true
	_, err = cli.usrRepo.UpdateUser(usr, &active)
	return err
}
