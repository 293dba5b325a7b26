// Package textscan extracts fragments from raw text by delimiter pairs,
// used to lift embedded JSON and labels out of scraped pages.
package textscan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
)

var nonAlphanumeric = regexp.MustCompile(`[^0-9a-zA-Z ]+`)

// Find returns the fragment between the first occurrence of start and the
// next occurrence of end after it. An empty end takes everything through
// the end of the string.
func Find(s, start, end string) (string, error) {
	from := strings.Index(s, start)
	if from < 0 {
		return "", fmt.Errorf("start marker %q not found", start)
	}
	from += len(start)

	if end == "" {
		return s[from:], nil
	}

	to := strings.Index(s[from:], end)
	if to < 0 {
		return "", fmt.Errorf("end marker %q not found", end)
	}
	return s[from : from+to], nil
}

// FindAll returns every fragment between consecutive start/end pairs, in
// order of appearance.
func FindAll(s, start, end string) []string {
	var out []string
	for {
		from := strings.Index(s, start)
		if from < 0 {
			return out
		}
		s = s[from+len(start):]

		to := strings.Index(s, end)
		if to < 0 {
			return out
		}
		out = append(out, s[:to])
		s = s[to+len(end):]
	}
}

// FindJSON extracts the fragment between start and end and decodes it as
// JSON.
func FindJSON(s, start, end string) (any, error) {
	fragment, err := Find(s, start, end)
	if err != nil {
		return nil, err
	}

	var v any
	if err := sonic.Unmarshal([]byte(fragment), &v); err != nil {
		return nil, fmt.Errorf("decode fragment: %w", err)
	}
	return v, nil
}

// StripNonAlphanumeric removes everything except letters, digits and
// spaces.
func StripNonAlphanumeric(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "")
}
