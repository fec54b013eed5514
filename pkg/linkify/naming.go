package linkify

import "strings"

// forbiddenFilenameRunes are path-hostile characters replaced when a statute
// title becomes a note file name.
const forbiddenFilenameRunes = `/\:*?"<>|`

// SanitizeFilename maps a statute title to a filesystem-safe note name:
// path-hostile characters become underscores, surrounding whitespace and
// trailing periods are trimmed.
func SanitizeFilename(lawTitle string) string {
	var builder strings.Builder
	builder.Grow(len(lawTitle))
	for _, r := range lawTitle {
		if strings.ContainsRune(forbiddenFilenameRunes, r) {
			builder.WriteByte('_')
		} else {
			builder.WriteRune(r)
		}
	}
	return strings.TrimRight(strings.TrimSpace(builder.String()), ".")
}

// NoteDir normalizes an output directory to the relative directory prefix
// used inside wiki links: forward slashes only, no redundant "./", no
// surrounding slashes. "." normalizes to the empty prefix.
func NoteDir(outputDir string) string {
	dir := strings.ReplaceAll(outputDir, `\`, "/")
	if dir == "." {
		return ""
	}
	for strings.HasPrefix(dir, "./") {
		dir = strings.TrimPrefix(dir, "./")
	}
	return strings.Trim(dir, "/")
}

// NoteTarget builds the dir/filename link target for a statute title.
func NoteTarget(dir, lawTitle string) string {
	file := SanitizeFilename(lawTitle)
	if dir == "" {
		return file
	}
	return dir + "/" + file
}
