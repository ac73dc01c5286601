package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/campuswall/internal/client/client"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context, args []string) error
	Edit(ctx context.Context) error
	Avatar(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	Random(ctx context.Context) error
	View(ctx context.Context, args []string) error
	History(ctx context.Context) error
	Post(ctx context.Context) error
	Picture(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, random, exit"
	helpLoggedIn  = "Available commands: me [id], edit, avatar <file>, users, random, view <id>, history, post, picture <key> <file>, logout, exit"
)

// runREPL reads one command per line from r and dispatches it to a. It
// returns on EOF or on "exit"/"quit". Command errors are printed and the
// loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "campuswall %s> ", statusFn())

		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "me":
			cmdErr = a.Me(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx)
		case "avatar":
			cmdErr = a.Avatar(ctx, args)
		case "users":
			cmdErr = a.Users(ctx)
		case "random", "r":
			cmdErr = a.Random(ctx)
		case "view":
			cmdErr = a.View(ctx, args)
		case "history", "h":
			cmdErr = a.History(ctx)
		case "post":
			cmdErr = a.Post(ctx)
		case "picture":
			cmdErr = a.Picture(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, describe(cmdErr))
		}
	}
}

// describe renders a command error for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "Session is missing or expired, please login"
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later"
	}
	return "Error: " + err.Error()
}
