package utils

import (
	"fmt"
	rndm "math/rand"
	"regexp"
	"strings"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var digitRunes = []rune("0123456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

// --- Phone Validation ---

var egyptianPhoneRe = regexp.MustCompile(`^(\+20|0)?1[0-25]\d{8}$`)

// ValidatePhoneNumber checks the Egyptian mobile format the front desk
// accepts (e.g. 01012345678, +201112345678). Spaces are ignored.
func ValidatePhoneNumber(phone string) bool {
	clean := strings.ReplaceAll(phone, " ", "")
	return egyptianPhoneRe.MatchString(clean)
}

// FormatPhoneNumber renders an 11-digit local number as 010-123-45678.
func FormatPhoneNumber(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "01") {
		return fmt.Sprintf("%s-%s-%s", cleaned[:3], cleaned[3:6], cleaned[6:])
	}
	return phone
}

// --- Duration Formatting ---

// FormatDuration renders a number of seconds as HH:MM:SS.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
