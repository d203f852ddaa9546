package services

import (
	"regexp"
	"strings"
	"unicode"

	"scamshield/internal/domain/models"
)

var (
	phoneShape = regexp.MustCompile(`^[\+]?[1-9]?[\-\.\s]?\(?[0-9]{3}\)?[\-\.\s]?[0-9]{3}[\-\.\s]?[0-9]{4,6}$`)
	urlShape   = regexp.MustCompile(`(?i)^https?://|^www\.|\.com$|\.org$|\.net$`)

	// phoneSeparators are removed before digit-only checks on phone numbers
	phoneSeparators = strings.NewReplacer("-", "", " ", "", "(", "", ")", "")
)

// DetectScanType infers the category of raw content. Phone takes precedence
// over URL, URL over text.
func DetectScanType(content string) models.ScanType {
	content = strings.TrimSpace(content)

	if phoneShape.MatchString(content) || isAllDigits(stripPhoneSeparators(content)) {
		return models.ScanTypePhone
	}

	if urlShape.MatchString(content) {
		return models.ScanTypeURL
	}

	return models.ScanTypeText
}

func stripPhoneSeparators(s string) string {
	return phoneSeparators.Replace(s)
}

// isAllDigits is false for the empty string
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
