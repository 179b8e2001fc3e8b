package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/healthkeeper/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	AddRecord(ctx context.Context) error
	Records(ctx context.Context, args []string) error
	DeleteRecord(ctx context.Context, args []string) error
	AddMedication(ctx context.Context) error
	Medications(ctx context.Context, args []string) error
	UpdateMedication(ctx context.Context, args []string) error
	StopMedication(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Trends(ctx context.Context, args []string) error
	Export(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: me, addrecord, records [days], deleterecord <id>, " +
		"addmed, meds [active], updatemed <id>, stopmed <id>, stats, trends [days], export, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the HealthKeeper CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to commands that take arguments. Commands
// other than help, register, login and exit require a session. Errors are
// printed and the loop continues. The loop exits on EOF, on "exit"/"quit",
// or when ctx is cancelled.
//
// A 401 from the server means the session is gone, so the user is logged out
// locally and asked to log in again.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("hk %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "register":
			report(ctx, a, a.Register(ctx))
			continue
		case "login":
			report(ctx, a, a.Login(ctx))
			continue
		}

		run, ok := sessionCommand(a, cmd, args)
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}
		report(ctx, a, run(ctx))
	}
}

// sessionCommand resolves commands that need a logged-in user.
func sessionCommand(a execIface, cmd string, args []string) (func(context.Context) error, bool) {
	switch cmd {
	case "me":
		return a.Me, true
	case "addrecord":
		return a.AddRecord, true
	case "records", "r":
		return func(ctx context.Context) error { return a.Records(ctx, args) }, true
	case "deleterecord":
		return func(ctx context.Context) error { return a.DeleteRecord(ctx, args) }, true
	case "addmed":
		return a.AddMedication, true
	case "meds", "m":
		return func(ctx context.Context) error { return a.Medications(ctx, args) }, true
	case "updatemed":
		return func(ctx context.Context) error { return a.UpdateMedication(ctx, args) }, true
	case "stopmed":
		return func(ctx context.Context) error { return a.StopMedication(ctx, args) }, true
	case "stats":
		return a.Stats, true
	case "trends":
		return func(ctx context.Context) error { return a.Trends(ctx, args) }, true
	case "export":
		return a.Export, true
	case "logout":
		return a.Logout, true
	default:
		return nil, false
	}
}

func report(ctx context.Context, a execIface, err error) {
	if err == nil {
		return
	}
	printlnFn("Error:", describeError(err))
	if errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn() {
		_ = a.Logout(ctx)
		printlnFn("Session expired, please login again")
	}
}
