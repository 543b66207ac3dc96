package controllers

import (
	"strings"
	"unicode/utf8"

	"github.com/amaumene/showtrack/internal/models"
	"golang.org/x/text/unicode/norm"
)

const (
	maxUsernameLength = 64
	maxTitleLength    = 200
)

// normalizeText trims whitespace and folds the text to NFC so visually
// identical input maps to the same stored string
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeUsername validates and normalizes a username
func NormalizeUsername(username string) (string, error) {
	username = normalizeText(username)
	if username == "" {
		return "", &models.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return "", &models.ValidationError{Field: "username", Reason: "too long"}
	}
	return username, nil
}

// NormalizeTitle validates and normalizes a show title
func NormalizeTitle(title string) (string, error) {
	title = normalizeText(title)
	if title == "" {
		return "", &models.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", &models.ValidationError{Field: "title", Reason: "too long"}
	}
	return title, nil
}
