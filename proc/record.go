package proc

import (
	"fmt"
	"strings"

	"github.com/midbel/slices"
)

const recordFields = 4

// Record is one process entry of a log: pid, memory in KB, cpu time in
// seconds and program name. Numeric fields are kept as written and only
// interpreted by the aggregation functions.
type Record struct {
	Pid     string
	Mem     string
	CpuTime string
	Name    string
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s %s", r.Pid, r.Mem, r.CpuTime, r.Name)
}

// ParseLine splits line on runs of whitespace and maps the first four tokens
// to a Record. Tokens after the fourth are dropped.
func ParseLine(line string) (Record, error) {
	var rec Record

	fields := strings.Fields(line)
	if len(fields) < recordFields {
		return rec, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, recordFields, len(fields))
	}
	rec.Pid = slices.At(fields, 0)
	rec.Mem = slices.At(fields, 1)
	rec.CpuTime = slices.At(fields, 2)
	rec.Name = slices.At(fields, 3)
	return rec, nil
}
