package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Roll(ctx context.Context) error
	Quota(ctx context.Context) error
	Faces(ctx context.Context) error
	History(ctx context.Context) error
	AddFace(ctx context.Context) error
	DeactivateFace(ctx context.Context, id string) error
	DeleteFace(ctx context.Context, id string) error
	SetUnlimited(ctx context.Context, on bool) error
	Refresh(ctx context.Context) error
	CacheStats(ctx context.Context) error
	ClearCache(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or on "exit"/"quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		status := ""
		if a.isLoggedIn() {
			status = "* "
		}
		printlnFn(fmt.Sprintf("lovedice %s> ", status))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (r)oll, quota, faces, history, add, off <id>, del <id>, unlimited on|off, refresh, cache, clearcache, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "r", "roll":
			_ = a.Roll(ctx)

		case "quota":
			_ = a.Quota(ctx)

		case "faces":
			_ = a.Faces(ctx)

		case "history":
			_ = a.History(ctx)

		case "add":
			_ = a.AddFace(ctx)

		case "off":
			if len(args) == 0 {
				printlnFn("Usage: off <face-id>")
				continue
			}
			_ = a.DeactivateFace(ctx, args[0])

		case "del":
			if len(args) == 0 {
				printlnFn("Usage: del <face-id>")
				continue
			}
			_ = a.DeleteFace(ctx, args[0])

		case "unlimited":
			if len(args) == 0 || (args[0] != "on" && args[0] != "off") {
				printlnFn("Usage: unlimited on|off")
				continue
			}
			_ = a.SetUnlimited(ctx, args[0] == "on")

		case "refresh":
			_ = a.Refresh(ctx)

		case "cache":
			_ = a.CacheStats(ctx)

		case "clearcache":
			_ = a.ClearCache(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
