package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tutorhub/internal/client/models"
	"github.com/dmitrijs2005/tutorhub/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) Register(ctx context.Context, _ []string) error {
	var in models.RegisterInput
	var err error

	if in.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if in.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if in.Role, err = getSimpleText(a.reader, "Enter role (Student or Tutor)", a.out); err != nil {
		return err
	}
	if in.Phone, err = getSimpleText(a.reader, "Enter phone (optional)", a.out); err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Register(ctx, in, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and signed in as %s (%s)\n", s.User.Name, s.User.Role)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", s.User.Name, s.User.Role)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context, _ []string) error {
	u, err := a.authService.WhoAmI(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func (a *App) Phone(ctx context.Context, args []string) error {
	phone := strings.Join(args, "")
	if phone == "" {
		var err error
		if phone, err = getSimpleText(a.reader, "Enter phone number", a.out); err != nil {
			return err
		}
	}

	u, err := a.authService.UpdatePhone(ctx, phone)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Phone number set to %s\n", u.Phone)
	return nil
}

func (a *App) Password(ctx context.Context, _ []string) error {
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	next, err := getPassword("New password", a.out)
	if err != nil {
		common.WipeByteArray(current)
		return err
	}
	confirm, err := getPassword("Repeat new password", a.out)
	if err != nil {
		common.WipeByteArray(current)
		common.WipeByteArray(next)
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(next) != string(confirm) {
		common.WipeByteArray(current)
		common.WipeByteArray(next)
		return errPasswordMismatch
	}

	// UpdatePassword wipes current and next
	if err := a.authService.UpdatePassword(ctx, current, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated")
	return nil
}
