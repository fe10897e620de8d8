package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Region(ctx context.Context, region string) error
	Language(ctx context.Context, language string) error
	ResetFilters(ctx context.Context) error
	Regions(ctx context.Context) error
	Languages(ctx context.Context) error
	Sort(ctx context.Context, field, dir string) error
	Show(ctx context.Context, code string) error
	ToggleFavorite(ctx context.Context, code string) error
	Favorites(ctx context.Context) error
	Forget(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, list, search <text>, region <name>, language <name>, reset, regions, languages, sort <name|population|region|capital> [asc|desc], show <code>, exit"
	helpSignedIn  = "Available commands: list, search <text>, region <name>, language <name>, reset, regions, languages, sort <name|population|region|capital> [asc|desc], show <code>, fav <code>, favs, whoami, logout, forget, exit"
)

// runREPL starts a simple read–eval–print loop for the country explorer.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Arguments after the command are joined with
// single spaces, so "region South America" is one argument. The loop exits
// on end of input or when the user types "exit" or "quit".
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("countries %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := strings.ToLower(parts[0]), strings.Join(parts[1:], " ")

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "search":
			cmdErr = a.Search(ctx, arg)

		case "region":
			cmdErr = a.Region(ctx, arg)

		case "language":
			cmdErr = a.Language(ctx, arg)

		case "reset":
			cmdErr = a.ResetFilters(ctx)

		case "regions":
			cmdErr = a.Regions(ctx)

		case "languages":
			cmdErr = a.Languages(ctx)

		case "sort":
			if len(parts) < 2 || len(parts) > 3 {
				printlnFn("Usage: sort <name|population|region|capital> [asc|desc]")
				continue
			}
			dir := ""
			if len(parts) == 3 {
				dir = parts[2]
			}
			cmdErr = a.Sort(ctx, parts[1], dir)

		case "show":
			if arg == "" {
				printlnFn("Usage: show <code>")
				continue
			}
			cmdErr = a.Show(ctx, arg)

		case "fav":
			if arg == "" {
				printlnFn("Usage: fav <code>")
				continue
			}
			cmdErr = a.ToggleFavorite(ctx, arg)

		case "favs", "favorites":
			cmdErr = a.Favorites(ctx)

		case "forget":
			cmdErr = a.Forget(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
