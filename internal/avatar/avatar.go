// Package avatar derives the colour and initials shown for a user who has no
// profile image, and renders them as a PNG.
package avatar

import (
	"strings"
	"unicode/utf16"
)

// Palette holds the avatar colours shared with the web client
var Palette = []string{
	"#2a5298", "#f39c12", "#27ae60", "#8e44ad", "#e74c3c", "#16a085",
	"#d35400", "#2980b9", "#c0392b", "#1abc9c", "#9b59b6", "#34495e",
}

// Hash is the 31-multiplier string hash over UTF-16 code units with the
// same 32-bit wraparound as the web client, so a name gets the same colour
// in the browser and in the terminal.
func Hash(name string) int64 {
	var h int64
	for _, c := range utf16.Encode([]rune(name)) {
		shifted := int64(int32(uint32(h)) << 5)
		h = int64(c) + (shifted - h)
	}
	return h
}

// Color picks the palette entry for name
func Color(name string) string {
	h := Hash(name)
	if h < 0 {
		h = -h
	}
	return Palette[h%int64(len(Palette))]
}

// Initials returns up to two uppercase letters for name. A single word
// gives its first two characters, otherwise the first character of each of
// the first two space-separated parts.
func Initials(name string) string {
	parts := strings.Split(name, " ")
	if len(parts) == 1 {
		r := []rune(name)
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	}
	return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[1]))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
