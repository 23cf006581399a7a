package time_parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const millisecondThreshold = 1e12

// ParseTimestamp converts a user-supplied timestamp string to UTC.
// Accepted forms: RFC3339 (with or without fractional seconds), ISO
// without timezone, space-separated datetime, date-only, and unix
// seconds or milliseconds.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}

	if unix, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if unix > millisecondThreshold {
			return time.Unix(0, unix*int64(time.Millisecond)).UTC(), nil
		}
		return time.Unix(unix, 0).UTC(), nil
	}

	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	for _, format := range formats {
		if parsed, err := time.Parse(format, trimmed); err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", value)
}
