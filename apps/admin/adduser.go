package main

import (
	"context"
	"fmt"
	"time"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/account"
)

// addUser updates or creates an account.User
func (cli *commandLine) addUser(name, email, role, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	var validRole bool
	for _, r := range account.AllRoles {
		if role == r {
			validRole = true
			break
		}
	}
	if !validRole {
		return fmt.Errorf("unknown role %q", role)
	}

	now := time.Now().UTC()
	usr, err := cli.accountRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != account.ErrNotFound {
			return err
		}
		usr = account.User{
			Email:     email,
			CreatedAt: now,
		}
	}
	usr.Name = name
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		_, err = cli.accountRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.accountRepo.UpdateUser(ctx, usr)
	}
	return err
}
