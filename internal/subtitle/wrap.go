package subtitle

import (
	"strings"
	"unicode/utf8"
)

// WrapLines greedily packs whitespace-separated tokens into lines of at most
// maxChars runes. A token longer than maxChars gets a line of its own.
func WrapLines(text string, maxChars int) []string {
	var lines []string
	var current []string
	currentLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if currentLen+wordLen+1 > maxChars && len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
			currentLen = wordLen
			continue
		}
		current = append(current, word)
		currentLen += wordLen + 1
	}

	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}

	return lines
}

// WrapText is WrapLines joined with newlines, ready for a cue block.
func WrapText(text string, maxChars int) string {
	return strings.Join(WrapLines(text, maxChars), "\n")
}
