package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
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
	Sync(ctx context.Context) error
	Upload(ctx context.Context) error
	Download(ctx context.Context) error
	ShowStatus(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context) error
	ListTrash(ctx context.Context) error
	Purge(ctx context.Context) error
	ListShortcuts(ctx context.Context) error
	ListSchedules(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("marksync %s> ", statusFn()))
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
				printlnFn("Available commands: sync, upload, download, status, (l)ist, add, del, trash, purge, shortcuts, schedules, logout, exit")
			} else {
				printlnFn("Available commands: login, (l)ist, add, del, trash, purge, shortcuts, schedules, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "download":
			_ = a.Download(ctx)

		case "status":
			_ = a.ShowStatus(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "del":
			_ = a.Delete(ctx)

		case "trash":
			_ = a.ListTrash(ctx)

		case "purge":
			_ = a.Purge(ctx)

		case "shortcuts":
			_ = a.ListShortcuts(ctx)

		case "schedules":
			_ = a.ListSchedules(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.userName)
}

// Root starts the interactive loop on stdin.
func (a *App) Root(ctx context.Context) {
	fmt.Println("marksync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
