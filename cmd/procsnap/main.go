package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/dhruv2800/procinfo/proc"
)

func main() {
	var (
		cmd  = flag.Bool("c", false, "use the command name from argv instead of the kernel name")
		file = flag.String("o", "", "write snapshot to file")
	)
	flag.Parse()

	list, err := proc.Snapshot(*cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sort.Slice(list, func(i, j int) bool {
		return pid(list[i]) < pid(list[j])
	})

	if *file == "" {
		err = write(os.Stdout, list)
	} else {
		err = save(*file, list)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// save writes list to file. The file is closed before returning and a
// failure to close is reported.
func save(file string, list []proc.Record) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := write(f, list); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func write(w io.Writer, list []proc.Record) error {
	ws := bufio.NewWriter(w)
	for _, r := range list {
		fmt.Fprintln(ws, r)
	}
	return ws.Flush()
}

func pid(r proc.Record) int {
	n, _ := strconv.Atoi(r.Pid)
	return n
}
