package udev

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is one udev database entry.
type Record struct {
	Properties      map[string]string
	Tags            []string
	CurrentTags     []string
	DevLinks        []string
	UsecInitialized uint64
}

// InitializedAt converts UsecInitialized, a CLOCK_MONOTONIC timestamp, to
// the time since boot.
func (r *Record) InitializedAt() time.Duration {
	return time.Duration(r.UsecInitialized) * time.Microsecond
}

// PropertyKeys returns the property names in sorted order.
func (r *Record) PropertyKeys() []string {
	keys := make([]string, 0, len(r.Properties))
	for k := range r.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseRecord reads a udev database file. Each line is a one-letter key,
// a colon, and a value; unknown keys are skipped.
func ParseRecord(r io.Reader) (*Record, error) {
	rec := &Record{Properties: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 || line[1] != ':' {
			continue
		}
		val := line[2:]
		switch line[0] {
		case 'E':
			k, v, ok := strings.Cut(val, "=")
			if ok {
				rec.Properties[k] = v
			}
		case 'G':
			rec.Tags = append(rec.Tags, val)
		case 'Q':
			rec.CurrentTags = append(rec.CurrentTags, val)
		case 'S':
			rec.DevLinks = append(rec.DevLinks, "/dev/"+val)
		case 'I':
			usec, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				clog.Debugf("ignoring bad I: line %q", line)
				continue
			}
			rec.UsecInitialized = usec
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}
