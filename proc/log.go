package proc

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
)

const maxLineSize = 1 << 20

// ReadLog returns the lines of file in order, each one with its line
// terminator. Lines end with \n, \r\n or a lone \r.
func ReadLog(file string) ([]string, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, err)
	}
	defer r.Close()

	var (
		scan  = bufio.NewScanner(r)
		lines []string
	)
	scan.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	scan.Split(scanLines)
	for scan.Scan() {
		lines = append(lines, scan.Text())
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, err)
	}
	return lines, nil
}

// scanLines is bufio.ScanLines keeping the terminator and accepting a lone
// \r as one.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	ix := bytes.IndexAny(data, "\r\n")
	switch {
	case ix < 0:
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	case data[ix] == '\n':
		return ix + 1, data[:ix+1], nil
	case ix+1 < len(data):
		if data[ix+1] == '\n' {
			ix++
		}
		return ix + 1, data[:ix+1], nil
	case atEOF:
		return ix + 1, data[:ix+1], nil
	default:
		// \r at the end of the buffer, \n may follow
		return 0, nil, nil
	}
}

// Load reads file and parses every line of it. The first malformed line
// aborts the load.
func Load(file string) ([]Record, error) {
	lines, err := ReadLog(file)
	if err != nil {
		return nil, err
	}
	list := make([]Record, 0, len(lines))
	for i, line := range lines {
		rec, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", file, i+1, err)
		}
		list = append(list, rec)
	}
	return list, nil
}
