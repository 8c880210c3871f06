package tools

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{6,14}\d`)
)

// ExtractContact scans free text for a phone number or email address.
// Phone wins when both appear. Empty string means nothing usable found.
func ExtractContact(text string) string {
	if phone := strings.TrimSpace(phonePattern.FindString(text)); phone != "" {
		// ignore short digit runs that are usually prices or quantities
		if countDigits(phone) >= 7 {
			return phone
		}
	}
	if email := strings.TrimSpace(emailPattern.FindString(text)); email != "" {
		return email
	}
	return ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
