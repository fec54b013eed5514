// Package title normalizes raw Japanese statute-name fragments into canonical
// dictionary tokens. It strips amendment qualifiers and structural-marker
// noise around a statute-type suffix, and rejects purely anaphoric
// self-references that can never resolve without discourse context.
package title

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// reStatuteToken matches a candidate statute name: a short run of name
// characters ending in a statute-type suffix (法, 政令, 省令, 府令, 規則,
// 条例, 条約). The last occurrence in a fragment wins, favoring the innermost
// named statute when a sentence nests several statute-type words.
var reStatuteToken = regexp.MustCompile(`[一-龥ァ-ヶーA-Za-z0-9・]{1,30}(?:法|法律|政令|省令|府令|規則|条例|条約)`)

// anaphoricTitles are self-referential forms ("the same Act", "this Act")
// that only make sense relative to surrounding text.
var anaphoricTitles = map[string]bool{
	"同法":   true,
	"同法律":  true,
	"この法律": true,
	"本法":   true,
	"前記法":  true,
}

// statuteSuffixes are the statute-type endings a normalized token must carry.
var statuteSuffixes = []string{"法律", "政令", "省令", "府令", "規則", "条例", "条約", "法"}

// amendmentQualifiers are leading qualifiers that scope a name to a revision
// ("before amendment", "former", ...) without changing which statute it names.
var amendmentQualifiers = []string{"改正前", "改正後", "旧", "新"}

// surroundingPunct is the set of bracket/quote/space runes trimmed from both
// ends of a fragment before matching.
const surroundingPunct = " 　（）()「」『』、。"

// structuralMarkers are kanji numerals, digits, and article/paragraph/item
// markers that leak into the front of a match when a reference like
// 第三条中... precedes the statute name.
const structuralMarkers = "一二三四五六七八九十百千〇0123456789第条項号"

// Normalize reduces a raw text fragment to a canonical statute-name token.
// It reports false when the fragment is anaphoric, contains no statute-type
// suffix, or reduces to fewer than two characters.
func Normalize(fragment string) (string, bool) {
	trimmed := strings.Trim(width.Fold.String(fragment), surroundingPunct)
	if trimmed == "" || anaphoricTitles[trimmed] {
		return "", false
	}

	matches := reStatuteToken.FindAllString(trimmed, -1)
	if len(matches) == 0 {
		return "", false
	}
	token := matches[len(matches)-1]

	token = stripAmendmentQualifier(token)
	token = strings.TrimLeft(token, structuralMarkers)
	token = strings.TrimPrefix(token, "中")
	token = stripAmendmentQualifier(token)

	// A remaining 中 splits a context phrase from the statute name proper;
	// keep the right-hand side when it independently ends in a suffix.
	if right, found := afterLast(token, "中"); found && hasStatuteSuffix(right) {
		token = right
	}

	if anaphoricTitles[token] {
		return "", false
	}
	if len([]rune(token)) < 2 {
		return "", false
	}
	return token, true
}

// stripAmendmentQualifier removes one leading amendment qualifier, if present.
func stripAmendmentQualifier(token string) string {
	for _, qualifier := range amendmentQualifiers {
		if rest, found := strings.CutPrefix(token, qualifier); found {
			return rest
		}
	}
	return token
}

// hasStatuteSuffix reports whether the token ends in a statute-type suffix.
func hasStatuteSuffix(token string) bool {
	for _, suffix := range statuteSuffixes {
		if strings.HasSuffix(token, suffix) {
			return true
		}
	}
	return false
}

// afterLast returns the text after the last occurrence of sep.
func afterLast(s, sep string) (string, bool) {
	index := strings.LastIndex(s, sep)
	if index < 0 {
		return "", false
	}
	return s[index+len(sep):], true
}
