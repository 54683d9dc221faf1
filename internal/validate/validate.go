package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reZIP   = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the minimum length the signup flow requires.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72 // bcrypt input cap
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	return s, true
}

// ID validates a resource identifier (user/book/trade ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Title clamps a book title/author to a displayable length.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 120 {
		return "", false
	}
	return s, true
}

// Condition normalizes the listing condition, defaulting to "used".
func Condition(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "new", "like-new", "good", "used", "worn":
		return s
	}
	return "used"
}

func Zip(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true // address fields are optional
	}
	return s, reZIP.MatchString(s)
}
