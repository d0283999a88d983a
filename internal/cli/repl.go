package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App implements it.
type execIface interface {
	Add(ctx context.Context) error
	List(ctx context.Context) error
	History(ctx context.Context, username string) error

	// Poll applies submits that finished since the last call.
	Poll(ctx context.Context)
	// Wait blocks until every submit in flight has finished, then polls.
	Wait(ctx context.Context)
}

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is done. Finished background submits are applied before each prompt
// and again once a line is read, so a command never runs against a view
// older than the last completed submit.
//
//	help                 show available commands
//	add                  store a username and password
//	list | l             list stored records sorted by username
//	history [username]   show journaled submissions
//	exit | quit          wait for pending submits and leave
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	defer a.Wait(ctx)

	for ctx.Err() == nil {
		a.Poll(ctx)

		printlnFn("tk> ")
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		a.Poll(ctx)
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: add, (l)ist, history [username], help, exit")

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "history":
			username := ""
			if len(args) > 0 {
				username = args[0]
			}
			_ = a.History(ctx, username)

		case "exit", "quit":
			a.Wait(ctx)
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
