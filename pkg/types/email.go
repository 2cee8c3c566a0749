package types

import "regexp"

// emailPattern is a deliberately loose shape check: something before the @,
// a domain, and a dot-separated TLD. Deliverability is the provider's job.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
