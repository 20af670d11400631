package utils

import "strings"

// IsKT reports whether an address belongs to a contract.
func IsKT(addr string) bool {
	return strings.HasPrefix(addr, "KT")
}

// IsTz reports whether an address belongs to an account.
func IsTz(addr string) bool {
	return strings.HasPrefix(addr, "tz")
}
