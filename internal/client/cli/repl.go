package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gobarber/internal/client/routes"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	route() routes.Route
	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Book(ctx context.Context, provider string) error
	Profile(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	WhoAmI(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the GoBarber CLI.
//
// The commands on offer depend on the route selected for the current
// session state:
//
//	Loading:
//	  - exit | quit
//
//	Signed out:
//	  - help           show available commands
//	  - signin         sign in
//	  - signup         create an account
//	  - exit | quit    leave the program
//
//	Signed in:
//	  - help           show available commands
//	  - dashboard      greeting and provider list
//	  - book <n|id>    schedule an appointment
//	  - profile        edit the profile
//	  - avatar <path>  upload a new avatar
//	  - whoami         show the signed-in user
//	  - signout        sign out
//	  - exit | quit    leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// to the user and log on their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gobarber (%s) > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		switch a.route() {
		case routes.RouteLoading:
			printlnFn("Loading...")

		case routes.RouteAuth:
			switch cmd {
			case "help":
				printlnFn("Available commands: signin, signup, exit")
			case "signin":
				_ = a.SignIn(ctx)
			case "signup":
				_ = a.SignUp(ctx)
			default:
				printlnFn("Unknown command:", cmd)
			}

		case routes.RouteApp:
			switch cmd {
			case "help":
				printlnFn("Available commands: dashboard, book <n|id>, profile, avatar <path>, whoami, signout, exit")
			case "dashboard":
				_ = a.Dashboard(ctx)
			case "book":
				_ = a.Book(ctx, arg)
			case "profile":
				_ = a.Profile(ctx)
			case "avatar":
				_ = a.Avatar(ctx, arg)
			case "whoami":
				_ = a.WhoAmI(ctx)
			case "signout":
				_ = a.SignOut(ctx)
			default:
				printlnFn("Unknown command:", cmd)
			}
		}
	}
}
