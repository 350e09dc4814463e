package gallery

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// maxSeconds is the longest length a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// ParseDuration parses video lengths written as "ss", "m:ss" or "h:mm:ss".
func ParseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}
	var total int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		// Only the leading component may exceed 59.
		if i > 0 && (len(p) != 2 || n > 59) {
			return 0, false
		}
		if i > 0 && total > (maxSeconds-n)/60 {
			return 0, false
		}
		total = total*60 + n
		if total > maxSeconds {
			return 0, false
		}
	}
	return time.Duration(total) * time.Second, true
}

// CompareDurations orders durations chronologically. Values that do not parse
// sort after all parseable ones, in lexical order among themselves.
func CompareDurations(a, b string) int {
	da, okA := ParseDuration(a)
	db, okB := ParseDuration(b)
	switch {
	case okA && okB:
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}
