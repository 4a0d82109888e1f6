// Package whatsapp builds click-to-chat deep links.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone reduces phone to E.164 digits without the plus sign. Numbers written
// without "+" that look national (11 digits or fewer after dropping trunk zeros) get
// defaultCountryCode prepended.
func NormalizePhone(phone, defaultCountryCode string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	international := strings.HasPrefix(trimmed, "+")

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if !international && strings.HasPrefix(digits, "00") {
		digits = digits[2:]
		international = true
	}
	if !international {
		digits = strings.TrimLeft(digits, "0")
		if len(digits) <= 11 {
			digits = defaultCountryCode + digits
		}
	}

	if len(digits) < 8 || len(digits) > 15 {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// Link returns https://wa.me/<digits>, with ?text= when text is not blank.
func Link(phone, text, defaultCountryCode string) (string, error) {
	digits, err := NormalizePhone(phone, defaultCountryCode)
	if err != nil {
		return "", err
	}

	link := baseURL + digits
	if strings.TrimSpace(text) != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	}
	return link, nil
}
