package proc

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// SortByName returns a copy of list ordered by program name. Records with
// the same name keep their relative order.
func SortByName(list []Record) []Record {
	res := make([]Record, len(list))
	copy(res, list)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})
	return res
}

func TotalMemory(list []Record) (int64, error) {
	return sum(list, func(r Record) string { return r.Mem })
}

func TotalCpuTime(list []Record) (int64, error) {
	return sum(list, func(r Record) string { return r.CpuTime })
}

// FilterByMemory returns the records using at least threshold KB of memory,
// in their original order.
func FilterByMemory(list []Record, threshold string) ([]Record, error) {
	limit, err := parseNumber(strings.TrimSpace(threshold))
	if err != nil {
		return nil, fmt.Errorf("threshold: %w", err)
	}
	var res []Record
	for _, r := range list {
		mem, err := parseNumber(r.Mem)
		if err != nil {
			return nil, fmt.Errorf("pid %s: memory: %w", r.Pid, err)
		}
		if mem >= limit {
			res = append(res, r)
		}
	}
	return res, nil
}

func sum(list []Record, field func(Record) string) (int64, error) {
	var total int64
	for _, r := range list {
		n, err := parseNumber(field(r))
		if err != nil {
			return 0, fmt.Errorf("pid %s: %w", r.Pid, err)
		}
		if (n > 0 && total > math.MaxInt64-n) || (n < 0 && total < math.MinInt64-n) {
			return 0, fmt.Errorf("pid %s: %w: sum overflows with %d", r.Pid, ErrNumber, n)
		}
		total += n
	}
	return total, nil
}

func parseNumber(str string) (int64, error) {
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumber, str)
	}
	return n, nil
}
