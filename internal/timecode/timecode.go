// Package timecode converts the HH:MM:SS stamps used in instruction files.
package timecode

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel marks an absent start or end point.
const Sentinel = "00:00:00"

var ErrMalformed = errors.New("malformed timestamp")

// IsSentinel reports whether value is the "no explicit time" marker.
func IsSentinel(value string) bool {
	return strings.TrimSpace(value) == Sentinel
}

// Parse reads an HH:MM:SS stamp into whole seconds. Fields sit at fixed
// positions; a fractional suffix such as ".500" is accepted and ignored.
func Parse(value string) (int, error) {
	value = strings.TrimSpace(value)
	if len(value) < 8 || value[2] != ':' || value[5] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	if len(value) > 8 && value[8] != '.' {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	hours, ok1 := twoDigits(value[0:2])
	minutes, ok2 := twoDigits(value[3:5])
	seconds, ok3 := twoDigits(value[6:8])
	if !ok1 || !ok2 || !ok3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, value)
	}
	return hours*3600 + minutes*60 + seconds, nil
}

// Format renders seconds as zero-padded HH:MM:SS.
func Format(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Duration returns end minus start in seconds.
func Duration(start, end string) (int, error) {
	s, err := Parse(start)
	if err != nil {
		return 0, err
	}
	e, err := Parse(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 {
		return 0, false
	}
	n := 0
	for i := 0; i < 2; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
