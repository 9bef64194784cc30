// Package email validates and canonicalizes email addresses at trust
// boundaries. Lookup is case-insensitive, so addresses are normalized once on
// the way in and stored in their canonical form.
package email

import (
	"strings"

	dErrors "filingcontrol/pkg/domain-errors"
)

// RFC 5321 caps the full address at 254 octets in practice.
const maxLength = 254

// Normalize validates an address and returns its canonical form: trimmed,
// with a lowercased domain part. The local part keeps its case; only the
// domain is case-insensitive by standard.
func Normalize(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if len(address) > maxLength {
		return "", dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}

	at := strings.LastIndexByte(address, '@')
	if at <= 0 || at == len(address)-1 {
		return "", dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}

	local, domain := address[:at], address[at+1:]
	if strings.ContainsAny(domain, " \t") || !strings.Contains(domain, ".") {
		return "", dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}
	return local + "@" + strings.ToLower(domain), nil
}
