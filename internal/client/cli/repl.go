package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/tutorhub/internal/client/client"
	"github.com/dmitrijs2005/tutorhub/internal/client/services"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	status(ctx context.Context) string

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Phone(ctx context.Context, args []string) error
	Password(ctx context.Context, args []string) error

	Posts(ctx context.Context, args []string) error
	MyPosts(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Interest(ctx context.Context, args []string) error
	Interested(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, posts [subject=.. location=.. min=.. max=..], show <id>, exit"
	helpLoggedIn  = "Available commands: whoami, phone, password, logout, posts [filters], myposts, show <id>, " +
		"create, edit <id>, delete <id>, interest <id>, interested <id>, select <id> <tutorId>, exit"
)

// runREPL reads commands until EOF or exit. Command errors are reported to
// out and never stop the loop.
func runREPL(ctx context.Context, a execIface, in *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "tutorhub %s> ", a.status(ctx))

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}
		case "register":
			cmdErr = a.Register(ctx, args)
		case "login":
			cmdErr = a.Login(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "whoami":
			cmdErr = a.WhoAmI(ctx, args)
		case "phone":
			cmdErr = a.Phone(ctx, args)
		case "password":
			cmdErr = a.Password(ctx, args)
		case "posts", "l", "list":
			cmdErr = a.Posts(ctx, args)
		case "myposts":
			cmdErr = a.MyPosts(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "create":
			cmdErr = a.Create(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "interest":
			cmdErr = a.Interest(ctx, args)
		case "interested":
			cmdErr = a.Interested(ctx, args)
		case "select":
			cmdErr = a.Select(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", describe(cmdErr))
		}
	}
}

// errUsage carries the usage line of a command called with bad arguments.
type errUsage string

func (e errUsage) Error() string { return "usage: " + string(e) }

func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		return "you are not logged in, use 'login'"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	}
	return err.Error()
}
