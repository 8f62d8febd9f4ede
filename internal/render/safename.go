// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "strings"

// illegalNameChars is the union of characters rejected in file names by
// Windows and POSIX file systems. Control characters are handled separately.
const illegalNameChars = `<>:"/\|?*`

// SafeName derives a file name from a chat title. "C#" becomes "CSharp";
// afterwards each illegal character is replaced by a hyphen, so the result
// keeps one rune per input rune.
func SafeName(title string) string {
	title = strings.ReplaceAll(title, "C#", "CSharp")
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(illegalNameChars, r) {
			return '-'
		}
		return r
	}, title)
}
