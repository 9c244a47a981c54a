package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. App satisfies
// it; tests substitute a stub.
type execIface interface {
	isUnlocked() bool
	Init(ctx context.Context) error
	Phrase(ctx context.Context) error
	RestoreKey(ctx context.Context) error
	Backup(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Get(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Lock(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL reads lines from the scanner, dispatches the first token as a
// command, and loops until EOF or exit/quit. Command handlers report their
// own errors; the loop stays up regardless.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pv %s> ", statusFn()))
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
			if a.isUnlocked() {
				printlnFn("Available commands: backup <file>, (l)ist, get <cid> [out], delete <cid>, sync, phrase, status, lock, reset, exit")
			} else {
				printlnFn("Available commands: init, restore-key, status, exit")
			}

		case "init":
			_ = a.Init(ctx)

		case "restore-key":
			_ = a.RestoreKey(ctx)

		case "phrase":
			_ = a.Phrase(ctx)

		case "backup":
			_ = a.Backup(ctx, args)

		case "l", "list":
			_ = a.List(ctx)

		case "get":
			_ = a.Get(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.Status(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
