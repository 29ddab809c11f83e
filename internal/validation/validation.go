package validation

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ValidateUsername(username string) bool {
	return usernameRe.MatchString(NormalizeUsername(username))
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 8
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 6 {
		return 8
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}

	// Cut on a rune boundary: a multi-byte character at the limit is dropped
	// whole rather than split into invalid bytes.
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
