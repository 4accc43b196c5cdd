package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// SanitizeEmail lowercases and trims an address and drops markup.
func SanitizeEmail(email string) string {
	return dropControl(htmlTagRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(email)), ""))
}

// SanitizePhone reduces a phone number to its leading '+' and digits, so
// "+33 6 12-34-56-78" and "(+33) 612.345.678" both become "+33612345678".
// Anything else is kept as is and left for the phone validator to reject.
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+':
			if b.Len() > 0 {
				return phone
			}
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return phone
		}
	}
	return b.String()
}

// SanitizeText escapes free text such as comments. Newlines and tabs survive.
func SanitizeText(input string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, html.EscapeString(strings.TrimSpace(input)))
}

// SanitizePlain trims and strips markup from short display text.
func SanitizePlain(input string) string {
	return dropControl(htmlTagRe.ReplaceAllString(strings.TrimSpace(input), ""))
}

// NormalizeKey trims a value that is later matched by equality (listing
// titles and places) and drops control characters. Markup is kept verbatim
// so the stored value equals what the client sent.
func NormalizeKey(input string) string {
	return dropControl(strings.TrimSpace(input))
}

func dropControl(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, input)
}
