// Package searchtext builds free-text search queries from track metadata.
// Catalog titles carry marketing noise ("Remastered 2020", "(Deluxe
// Edition)", "feat. X") that hurts recall against downstream search APIs,
// so queries are built from a cleaned form of the title and artist.
package searchtext

import (
	"strings"
	"unicode"
)

var noiseTokens = map[string]struct{}{
	"clean":      {},
	"deluxe":     {},
	"edition":    {},
	"edit":       {},
	"explicit":   {},
	"feat":       {},
	"featuring":  {},
	"ft":         {},
	"live":       {},
	"mix":        {},
	"mono":       {},
	"radio":      {},
	"remaster":   {},
	"remastered": {},
	"stereo":     {},
	"version":    {},
}

// Query builds a lowercase search query from a track title and artist.
// Bracketed segments, separators, and noise tokens are removed from both.
func Query(title string, artist string) string {
	cleanedTitle := Normalize(title)
	cleanedArtist := Normalize(artist)
	if cleanedTitle == "" {
		return cleanedArtist
	}
	if cleanedArtist == "" {
		return cleanedTitle
	}
	return cleanedTitle + " " + cleanedArtist
}

// Normalize lowercases the input, drops bracketed segments, collapses
// punctuation to single spaces, and removes known noise tokens.
func Normalize(input string) string {
	if input == "" {
		return ""
	}

	lower := strings.ToLower(input)
	filtered := stripBracketedSegments(lower)
	tokens := strings.Fields(cleanSeparators(filtered))

	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, drop := noiseTokens[token]; drop {
			continue
		}
		cleaned = append(cleaned, token)
	}

	return strings.Join(cleaned, " ")
}

func stripBracketedSegments(input string) string {
	var out strings.Builder
	depth := 0
	for _, r := range input {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}

	return out.String()
}

func cleanSeparators(input string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}

	return out.String()
}
