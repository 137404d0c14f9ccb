package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/stagedock/stagedock/core"
	"github.com/stagedock/stagedock/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.findUser(ctx, uname, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()

	isActive := true
	if usr.ID == "" {
		usr.IsActive = &isActive
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr, &isActive)
	}
	return err
}

func (cli *commandLine) findUser(ctx context.Context, uname, email string) (user.User, error) {
	if uname != "" {
		if usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname); err == nil {
			return usr, nil
		} else if errors.Cause(err) != user.ErrNotFound {
			return user.User{}, err
		}
	}
	if email != "" {
		return cli.usrRepo.GetUserByEmail(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}
