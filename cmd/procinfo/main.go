package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dhruv2800/procinfo/proc"
)

const (
	msgUnreadable  = "Unable to read logfile"
	msgNotFound    = "No processes found"
	msgNoThreshold = "No processes found with the specified memory size"
)

// exitError carries the status the process should exit with. An empty
// message means the user has already been told what happened.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exit *exitError
		if !errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if exit.msg != "" {
			fmt.Fprintln(os.Stderr, exit.msg)
		}
		os.Exit(exit.code)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: opts.level,
	}))

	logger.Debug("loading log", "file", opts.file)
	list, err := proc.Load(opts.file)
	if err != nil {
		if errors.Is(err, proc.ErrUnreadable) {
			logger.Debug("log not loaded", "file", opts.file, "err", err)
			return &exitError{code: 1, msg: msgUnreadable}
		}
		return &exitError{code: 1, msg: err.Error()}
	}
	logger.Debug("log loaded", "file", opts.file, "records", len(list))

	if opts.all {
		logger.Debug("listing all processes")
		if len(list) == 0 {
			return notFound(stdout, msgNotFound)
		}
		printRecords(stdout, proc.SortByName(list))
	}
	if opts.memory {
		logger.Debug("computing total memory")
		if len(list) == 0 {
			return notFound(stdout, msgNotFound)
		}
		total, err := proc.TotalMemory(list)
		if err != nil {
			return &exitError{code: 1, msg: err.Error()}
		}
		fmt.Fprintln(stdout, "Total memory size:", total, "KB")
	}
	if opts.total {
		logger.Debug("computing total cpu time")
		if len(list) == 0 {
			return notFound(stdout, msgNotFound)
		}
		total, err := proc.TotalCpuTime(list)
		if err != nil {
			return &exitError{code: 1, msg: err.Error()}
		}
		fmt.Fprintln(stdout, "Total CPU time:", total, "seconds")
	}
	if opts.threshold != "" {
		logger.Debug("filtering by memory", "threshold", opts.threshold)
		matches, err := proc.FilterByMemory(list, opts.threshold)
		if err != nil {
			return &exitError{code: 1, msg: err.Error()}
		}
		if len(matches) == 0 {
			return notFound(stdout, msgNoThreshold)
		}
		printRecords(stdout, matches)
	}
	return nil
}

func notFound(w io.Writer, msg string) error {
	fmt.Fprintln(w, msg)
	return &exitError{code: 1}
}

func printRecords(w io.Writer, list []proc.Record) {
	for _, r := range list {
		fmt.Fprintln(w, r)
	}
}
