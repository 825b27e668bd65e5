package form

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// dateAttrLayout is the format used for the ${date} message attribute.
const dateAttrLayout = "2006-01-02"

var (
	// emailRe is a deliberately conservative RFC 5322 subset: dot-separated
	// unescaped atoms or a quoted string for the local part, then either a
	// bracketed dotted-quad IPv4 literal or a dot-separated domain whose
	// final label is at least two letters. The accept/reject boundary is
	// intentionally preserved as-is; do not swap in a stricter validator.
	emailRe = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

	alphaRe     = regexp.MustCompile(`^[A-Za-z]+$`)
	alphaDashRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	alphaNumRe  = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// stringify renders a value the way error messages and string-based
// predicates see it.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// isPresent implements the required rule: the value must not be nil and its
// string representation must be non-empty after removing every whitespace
// character, not just leading and trailing ones.
func isPresent(v any) bool {
	if v == nil {
		return false
	}
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, stringify(v))
	return len(stripped) > 0
}

func isEmail(v any) bool {
	if v == nil {
		return false
	}
	return emailRe.MatchString(stringify(v))
}

// isAccepted passes for the case-insensitive string "yes", boolean true, or
// numeric 1. Other strings ("on", "1") and numbers fail.
func isAccepted(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "yes")
	case int:
		return t == 1
	case int8:
		return t == 1
	case int16:
		return t == 1
	case int32:
		return t == 1
	case int64:
		return t == 1
	case uint:
		return t == 1
	case uint8:
		return t == 1
	case uint16:
		return t == 1
	case uint32:
		return t == 1
	case uint64:
		return t == 1
	case float32:
		return t == 1
	case float64:
		return t == 1
	default:
		return false
	}
}

func isDate(v any) bool {
	_, err := parseDate(v)
	return err == nil
}

// ParseDate coerces a value into a time.Time the same way the date rules
// do, so callers persisting a validated date get the value the rule saw.
func ParseDate(v any) (time.Time, error) {
	return parseDate(v)
}

// parseDate coerces a value into a time.Time. time.Time values pass through;
// everything else goes through the general-purpose date parser.
func parseDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("form: nil time value")
		}
		return *t, nil
	case nil:
		return time.Time{}, fmt.Errorf("form: nil date value")
	default:
		return dateparse.ParseAny(stringify(v))
	}
}

// mustDate coerces a comparison bound at rule-attachment time. A malformed
// bound is a configuration error, so it panics instead of failing softly.
func mustDate(v any) time.Time {
	t, err := parseDate(v)
	if err != nil {
		panic(fmt.Errorf("form: invalid comparison date %v: %w", v, err))
	}
	return t
}

// dateCompare builds a predicate comparing the field date against bound.
// cmp receives -1, 0, or 1 (field relative to bound). Unparseable field
// values fail the rule rather than aborting validation.
func dateCompare(cmp func(int) bool, bound time.Time) func(any) bool {
	return func(v any) bool {
		t, err := parseDate(v)
		if err != nil {
			return false
		}
		return cmp(t.Compare(bound))
	}
}

func matches(re *regexp.Regexp) func(any) bool {
	return func(v any) bool {
		if v == nil {
			return false
		}
		return re.MatchString(stringify(v))
	}
}

// isArray reports whether the value is a list-like sequence (slice or array).
func isArray(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
