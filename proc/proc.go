package proc

import (
	"errors"
)

const (
	procStatus  = "status"
	procStat    = "stat"
	procCmdline = "cmdline"

	// USER_HZ as exposed by the kernel in /proc/<pid>/stat.
	userHZ = 100
)

// root of the proc filesystem, replaced in tests.
var root = "/proc"

var (
	ErrUnreadable = errors.New("unreadable log")
	ErrMalformed  = errors.New("malformed line")
	ErrNumber     = errors.New("invalid number")
)
