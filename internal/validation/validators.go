package validation

import (
	"fmt"
	"strings"
	"time"
)

// Accepted textual layouts for temporal column types.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	ShortTimeLayout = "15:04"
)

// ValidateDate checks a YYYY-MM-DD date.
func ValidateDate(value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return nil
}

// ValidateTime checks an HH:MM:SS or HH:MM time and returns it in
// HH:MM:SS form.
func ValidateTime(value string) (string, error) {
	if t, err := time.Parse(TimeLayout, value); err == nil {
		return t.Format(TimeLayout), nil
	}
	if t, err := time.Parse(ShortTimeLayout, value); err == nil {
		return t.Format(TimeLayout), nil
	}
	return "", fmt.Errorf("invalid time %q, expected HH:MM:SS or HH:MM", value)
}

// ValidateEmail performs a basic local@domain.tld shape check.
func ValidateEmail(value string) error {
	local, domain, ok := strings.Cut(value, "@")
	switch {
	case !ok:
		return fmt.Errorf("email %q must contain @", value)
	case strings.Contains(domain, "@"):
		return fmt.Errorf("email %q must have exactly one @", value)
	case local == "":
		return fmt.Errorf("email %q has an empty local part", value)
	case !strings.Contains(domain, "."):
		return fmt.Errorf("email domain %q must contain a dot", domain)
	case strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, "."):
		return fmt.Errorf("email domain %q cannot start or end with a dot", domain)
	}
	return nil
}
