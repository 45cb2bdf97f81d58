package validate

import (
	"regexp"
	"strings"

	"marketbay/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the minimum length only; complexity is not required.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72 // bcrypt input cap
}

// ID validates a simple resource identifier (product ids, order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Address reports which required shipping fields are missing or blank.
func Address(a domain.ShippingAddress) []string {
	var missing []string
	check := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	check("fullName", a.FullName)
	check("address", a.Address)
	check("city", a.City)
	check("postalCode", a.PostalCode)
	check("country", a.Country)
	return missing
}
