package proc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/midbel/slices"
)

// readFile is swapped in tests to simulate processes exiting mid-scan.
var readFile = os.ReadFile

// Snapshot builds a Record for every process currently listed under /proc.
// When useCmd is set, the program name comes from argv[0] of the process
// instead of the (truncated) kernel command name.
func Snapshot(useCmd bool) ([]Record, error) {
	files, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var list []Record
	for _, f := range files {
		if !f.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(f.Name()); err != nil {
			continue
		}
		rec, err := readRecord(filepath.Join(root, f.Name()), useCmd)
		if err != nil {
			if gone(err) {
				continue
			}
			return nil, err
		}
		rec.Pid = f.Name()
		list = append(list, rec)
	}
	return list, nil
}

func readRecord(dir string, useCmd bool) (Record, error) {
	var rec Record

	name, rss, err := readStatus(dir)
	if err != nil {
		return rec, err
	}
	ticks, err := readCpuTicks(dir)
	if err != nil {
		return rec, err
	}
	if useCmd {
		arg0, err := readArg0(dir)
		if err != nil {
			return rec, err
		}
		if arg0 != "" {
			name = filepath.Base(arg0)
		}
	}
	rec.Name = strings.Join(strings.Fields(name), "_")
	rec.Mem = strconv.FormatInt(rss, 10)
	rec.CpuTime = strconv.FormatUint(ticks/userHZ, 10)
	return rec, nil
}

// gone reports whether err comes from a process that exited while it was
// being read.
func gone(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ESRCH)
}

// readArg0 returns the first NUL separated word of cmdline. Kernel threads
// have an empty command line.
func readArg0(dir string) (string, error) {
	buf, err := readFile(filepath.Join(dir, procCmdline))
	if err != nil {
		return "", err
	}
	arg0, _, _ := bytes.Cut(buf, []byte{0})
	return string(arg0), nil
}

// readStatus returns the command name and the resident set size in kB.
// Kernel threads have no VmRSS line and report 0.
func readStatus(dir string) (string, int64, error) {
	buf, err := readFile(filepath.Join(dir, procStatus))
	if err != nil {
		return "", 0, err
	}

	var (
		name string
		rss  int64
		scan = bufio.NewScanner(bytes.NewReader(buf))
	)
	for scan.Scan() {
		field, value, ok := strings.Cut(scan.Text(), ":")
		if !ok {
			return "", 0, fmt.Errorf("missing : in line")
		}
		switch strings.ToLower(field) {
		case "name":
			name = strings.TrimSpace(value)
		case "vmrss":
			value, _, _ = strings.Cut(strings.TrimSpace(value), " ")
			if rss, err = strconv.ParseInt(value, 10, 64); err != nil {
				return "", 0, err
			}
		default:
		}
	}
	return name, rss, scan.Err()
}

// readCpuTicks returns utime+stime from the stat file. The command name is
// skipped by looking for the last closing parenthesis since it may contain
// spaces.
func readCpuTicks(dir string) (uint64, error) {
	buf, err := readFile(filepath.Join(dir, procStat))
	if err != nil {
		return 0, err
	}
	ix := bytes.LastIndexByte(buf, ')')
	if ix < 0 {
		return 0, fmt.Errorf("%s: missing command name", filepath.Join(dir, procStat))
	}
	// fields after the command name start at state (field 3), utime and
	// stime are fields 14 and 15.
	fields := strings.Fields(string(buf[ix+1:]))
	if len(fields) < 13 {
		return 0, fmt.Errorf("%s: too few fields", filepath.Join(dir, procStat))
	}
	utime, err := strconv.ParseUint(slices.At(fields, 11), 10, 64)
	if err != nil {
		return 0, err
	}
	stime, err := strconv.ParseUint(slices.At(fields, 12), 10, 64)
	if err != nil {
		return 0, err
	}
	return utime + stime, nil
}
