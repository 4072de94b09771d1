// Package idnax contains IDNA extensions.
package idnax

import "golang.org/x/net/idna"

// ToASCII converts a domain name to its ASCII form using the same profile
// browsers use for lookups: this maps the domain to lowercase and enforces
// the STD3 rules, thus rejecting labels containing, e.g., colons or slashes.
func ToASCII(domain string) (string, error) {
	return idna.Lookup.ToASCII(domain)
}
