// Package main provides the hikari CLI and terminal UI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sandeepkv93/hikari/internal/commands"
	"github.com/sandeepkv93/hikari/internal/config"
	"github.com/sandeepkv93/hikari/internal/model"
	"github.com/sandeepkv93/hikari/internal/storage"
)

const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(newApp())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
	}
	return exitCode(err)
}

// usageError marks bad input on the command line.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

var userErrors = []error{
	storage.ErrNotFound,
	model.ErrInvalidTitle,
	model.ErrTitleTooLong,
	model.ErrInvalidStatus,
	model.ErrInvalidPriority,
	model.ErrProjectRequired,
	model.ErrInvalidDate,
	config.ErrDriverUnknown,
	config.ErrPathEmpty,
	config.ErrTimezoneInvalid,
	config.ErrAlertsInvalid,
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue usageError
	var ce *commands.CommandError
	if errors.As(err, &ue) || errors.As(err, &ce) {
		return exitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}
