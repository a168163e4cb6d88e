package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// findKeyValue isolates the value of a "KEY = VALUE" pair in text. The value
// starts at the first rune after the key satisfying isStart and ends before the
// next rune satisfying isEnd, or at the end of text. It returns the trimmed
// value and the remainder of text after the value, so a fixed-order preamble
// can be walked in one pass by feeding rest back in as text.
func findKeyValue(text, key string, isStart, isEnd func(rune) bool) (value, rest string, err error) {
	idx := strings.Index(text, key)
	if idx < 0 {
		return "", text, fmt.Errorf("%w: key %s not found", ErrMalformedKeyValue, key)
	}
	head := text[idx+len(key):]

	start := strings.IndexFunc(head, isStart)
	if start < 0 {
		return "", text, fmt.Errorf("%w: key %s has no value", ErrMalformedKeyValue, key)
	}
	head = head[start:]

	end := strings.IndexFunc(head, isEnd)
	if end < 0 {
		end = len(head)
	}
	return strings.TrimSpace(head[:end]), head[end:], nil
}

// findSectionBoundary finds two consecutive newlines separated only by runes
// that are neither letters nor digits, and returns the offset just past the
// second one. It reports false when no such boundary exists or the boundary is
// the very end of text.
func findSectionBoundary(text string) (int, bool) {
	sawNewline := false
	for i, r := range text {
		switch {
		case r == '\n' && sawNewline:
			next := i + 1
			if next >= len(text) {
				return 0, false
			}
			return next, true
		case r == '\n':
			sawNewline = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sawNewline = false
		}
	}
	return 0, false
}

// findNextNTokens returns the offset just after the n-th whitespace-delimited
// token in text. It reports false with no error when text holds only
// whitespace, and ErrTokenCount when text ends partway through a group.
func findNextNTokens(text string, n int) (int, bool, error) {
	if n <= 0 {
		return 0, false, fmt.Errorf("%w: group size %d", ErrTokenCount, n)
	}
	if strings.TrimSpace(text) == "" {
		return 0, false, nil
	}

	count := 0
	inToken := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inToken {
				inToken = false
				count++
				if count == n {
					return i, true, nil
				}
			}
			continue
		}
		inToken = true
	}

	// Text ended inside the n-th token with no trailing whitespace.
	if inToken && count == n-1 {
		return len(text), true, nil
	}
	if inToken {
		count++
	}
	return 0, false, fmt.Errorf("%w: found %d of %d tokens", ErrTokenCount, count, n)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNumberStart(r rune) bool { return isDigit(r) || r == '-' }

func isFloatEnd(r rune) bool { return !(isDigit(r) || r == '.' || r == '-') }

func isIntEnd(r rune) bool { return !(isDigit(r) || r == '-') }

func isTimeEnd(r rune) bool { return !(isDigit(r) || r == '/') }

// parseFloatKV decodes the float value of key, returning the raw number
// (sentinel included) and the remaining text.
func parseFloatKV(text, key string) (float64, string, error) {
	val, rest, err := findKeyValue(text, key, isNumberStart, isFloatEnd)
	if err != nil {
		return 0, text, err
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, text, fmt.Errorf("%w: %s = %q", ErrInvalidNumber, key, val)
	}
	return f, rest, nil
}

// parseIntKV decodes the integer value of key.
func parseIntKV(text, key string) (int, string, error) {
	val, rest, err := findKeyValue(text, key, isNumberStart, isIntEnd)
	if err != nil {
		return 0, text, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, text, fmt.Errorf("%w: %s = %q", ErrInvalidNumber, key, val)
	}
	return n, rest, nil
}

// parseValidTimeKV decodes a YYMMDD/HHMM value of key.
func parseValidTimeKV(text, key string) (time.Time, string, error) {
	val, rest, err := findKeyValue(text, key, isDigit, isTimeEnd)
	if err != nil {
		return time.Time{}, text, err
	}
	t, err := parseValidTime(val)
	if err != nil {
		return time.Time{}, text, err
	}
	return t, rest, nil
}

// parseValidTime parses exactly "YYMMDD/HHMM" as a UTC time in the 2000s.
func parseValidTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != 11 || s[6] != '/' {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	fields := [5]int{}
	for i, span := range [5][2]int{{0, 2}, {2, 4}, {4, 6}, {7, 9}, {9, 11}} {
		part := s[span[0]:span[1]]
		if !isDigit(rune(part[0])) || !isDigit(rune(part[1])) {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		fields[i] = int(part[0]-'0')*10 + int(part[1]-'0')
	}

	year, month, day, hour, minute := 2000+fields[0], fields[1], fields[2], fields[3], fields[4]
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes out-of-range fields; reject anything it had to move.
	if t.Month() != time.Month(month) || t.Day() != day || t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t, nil
}
