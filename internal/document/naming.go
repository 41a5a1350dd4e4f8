package document

import (
	"strings"
	"time"
	"unicode"
)

const (
	// FallbackProjectName names downloads of unnamed projects.
	FallbackProjectName = "playmat-project"
	// FallbackImageName names exports of unnamed projects.
	FallbackImageName = "playmat-design"
)

const keptLetters = "áéíóúÁÉÍÓÚñÑüÜ"

// SanitizeName keeps ASCII letters and digits, accented vowels, ñ, ü,
// whitespace and hyphens, and trims the result.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '-', unicode.IsSpace(r):
			b.WriteRune(r)
		case strings.ContainsRune(keptLetters, r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Filename returns the download name for a project document, such as
// "My Playmat-2026-10-14.json".
func Filename(projectName string, now time.Time) string {
	return nameOr(projectName, FallbackProjectName) + "-" + now.UTC().Format(time.DateOnly) + ".json"
}

// ImageFilename returns the name for an exported PNG.
func ImageFilename(projectName string) string {
	return nameOr(projectName, FallbackImageName) + ".png"
}

func nameOr(name, fallback string) string {
	if s := SanitizeName(name); s != "" {
		return s
	}
	return fallback
}
