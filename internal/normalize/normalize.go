// Package normalize canonicalizes the identifiers the pipeline keys on:
// organization domains and contact email addresses.
package normalize

import (
	"regexp"
	"strings"
)

// emailPattern matches a single email-shaped token inside free text.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)

// edgePunct is the bounded set of punctuation stripped from either end of an
// address. Upstream extraction regularly appends sentence punctuation
// ("user@domain.com.") which breaks delivery.
const edgePunct = `.,;:"'`

// Domain canonicalizes an organization domain for dedup lookup.
func Domain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name canonicalizes a company name, used as the identity key only when no
// domain is known.
func Name(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Email strips whitespace and leading/trailing punctuation from an address.
func Email(s string) string {
	if s == "" {
		return s
	}
	out := strings.TrimSpace(s)
	for len(out) > 0 && strings.ContainsRune(edgePunct, rune(out[len(out)-1])) {
		out = out[:len(out)-1]
	}
	for len(out) > 0 && strings.ContainsRune(edgePunct, rune(out[0])) {
		out = out[1:]
	}
	return strings.TrimSpace(out)
}

// ExtractEmail returns the first email-shaped token found in free text,
// normalized. Returns "" when the text contains no address.
func ExtractEmail(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	m := emailPattern.FindString(text)
	if m == "" {
		return ""
	}
	return Email(m)
}
