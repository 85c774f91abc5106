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
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context) error
	AddPhoto(ctx context.Context) error
	Refresh(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
	Clear(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the divelog CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — paste a session token and subscribe
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - add            — log a new dive
//	  - delete         — delete a dive (interactive ID prompt)
//	  - list           — list visible dives
//	  - show           — show a single dive (interactive ID prompt)
//	  - photo          — attach a photo to a dive
//	  - refresh        — force a one-shot re-query
//	  - export         — export the journal to a file
//	  - import         — import a previously exported file
//	  - clear          — delete every visible dive
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("divelog> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, delete, show, photo, refresh, export, import, clear, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "add":
			_ = a.Add(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "show":
			_ = a.Show(ctx)

		case "photo":
			_ = a.AddPhoto(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "export":
			_ = a.Export(ctx)

		case "import":
			_ = a.Import(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
