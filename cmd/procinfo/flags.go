package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type options struct {
	all       bool
	memory    bool
	total     bool
	threshold string
	level     slog.Level
	file      string
}

const usage = `usage: procinfo [options] logfile

Read a log of processes (pid memory cpu_time program_name per line) and
print aggregated views of it.

Options:
`

// parseArgs accepts flags before and after the log file, the way users
// expect from most command line tools.
func parseArgs(args []string, output io.Writer) (options, error) {
	var (
		opts  options
		level string
		files []string
	)
	set := flag.NewFlagSet("procinfo", flag.ContinueOnError)
	set.SetOutput(output)
	set.Usage = func() {
		fmt.Fprint(output, usage)
		set.PrintDefaults()
	}

	set.BoolVar(&opts.all, "a", false, "print all processes sorted by program name (shorthand)")
	set.BoolVar(&opts.all, "all", false, "print all processes sorted by program name")
	set.BoolVar(&opts.memory, "m", false, "print total memory used by all processes (shorthand)")
	set.BoolVar(&opts.memory, "memory", false, "print total memory used by all processes")
	set.BoolVar(&opts.total, "t", false, "print total cpu time (shorthand)")
	set.BoolVar(&opts.total, "total", false, "print total cpu time")
	set.StringVar(&opts.threshold, "s", "", "print processes using at least `KB` of memory (shorthand)")
	set.StringVar(&opts.threshold, "threshhold", "", "print processes using at least `KB` of memory")
	set.StringVar(&level, "log-level", "warn", "diagnostics level: debug, info, warn or error")

	for {
		if err := set.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return opts, &exitError{code: 0}
			}
			return opts, &exitError{code: 2}
		}
		if set.NArg() == 0 {
			break
		}
		files = append(files, set.Arg(0))
		args = set.Args()[1:]
	}

	switch len(files) {
	case 0:
		set.Usage()
		return opts, &exitError{code: 2, msg: "procinfo: missing logfile"}
	case 1:
		opts.file = files[0]
	default:
		return opts, &exitError{code: 2, msg: fmt.Sprintf("procinfo: unexpected arguments: %s", strings.Join(files[1:], " "))}
	}

	switch strings.ToLower(level) {
	case "debug":
		opts.level = slog.LevelDebug
	case "info":
		opts.level = slog.LevelInfo
	case "warn":
		opts.level = slog.LevelWarn
	case "error":
		opts.level = slog.LevelError
	default:
		return opts, &exitError{code: 2, msg: "procinfo: invalid log-level: must be debug, info, warn or error"}
	}
	return opts, nil
}
