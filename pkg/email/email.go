// Package email normalizes contact addresses entered by users.
package email

import (
	"net/mail"
	"strings"
)

// Normalize trims addr and lowercases its domain. ok is false unless addr is
// a single bare address; display names and lists are rejected.
func Normalize(addr string) (normalized string, ok bool) {
	addr = strings.TrimSpace(addr)
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Name != "" || parsed.Address != addr {
		return "", false
	}
	at := strings.LastIndexByte(addr, '@')
	if at <= 0 || at == len(addr)-1 {
		return "", false
	}
	return addr[:at] + "@" + strings.ToLower(addr[at+1:]), true
}

// Same reports whether a and b name the same mailbox.
func Same(a, b string) bool {
	na, okA := Normalize(a)
	nb, okB := Normalize(b)
	return okA && okB && strings.EqualFold(na, nb)
}
