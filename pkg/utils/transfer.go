package utils

import (
	"net/mail"
	"strconv"
	"strings"
)

// ConvertStringToIntDefault parses v and returns def when v is empty or
// not a number.
func ConvertStringToIntDefault(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Normalize trims s and lowercases it. Usernames and emails are stored this way.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}
