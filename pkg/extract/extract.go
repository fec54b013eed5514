// Package extract scans rendered statute text for outbound cross-references
// of the form <statute-name>第N条, resolving captured name fragments through
// the name dictionary. The resulting references seed the crawl queue.
package extract

import (
	"regexp"
	"sort"

	"github.com/coolbeans/lawnote/pkg/dict"
)

// reExternalRef matches a statute-name run (mixed scripts plus bracket
// variants, at most 40 characters) ending in a statute-type suffix, followed
// by an article number in Arabic digits or kanji numerals.
var reExternalRef = regexp.MustCompile(
	`([ぁ-んァ-ヶー一-龥A-Za-z0-9・（）()「」『』]{1,40}?(?:法|法律|政令|省令|府令|規則|条例|条約))第([0-9一二三四五六七八九十百千〇]+)条`)

// LawRef is an extracted outbound reference, used transiently to seed the
// crawl queue.
type LawRef struct {
	// SourceLaw is the title of the statute the reference was found in.
	SourceLaw string

	// LawTitle is the referenced statute title, dictionary-resolved when
	// possible, otherwise the normalized fragment.
	LawTitle string

	// Article is the referenced article token (第N条).
	Article string
}

// ExternalReferences extracts the outbound statute references in text.
// Duplicate citations of the same (source, title, article) collapse to one
// reference, and results are ordered deterministically.
func ExternalReferences(text string, dictionary *dict.Dictionary, sourceLaw string) []LawRef {
	seen := make(map[LawRef]bool)

	for _, match := range reExternalRef.FindAllStringSubmatch(text, -1) {
		lawTitle, ok := dictionary.ResolveFragment(match[1])
		if !ok {
			continue
		}
		ref := LawRef{
			SourceLaw: sourceLaw,
			LawTitle:  lawTitle,
			Article:   "第" + match[2] + "条",
		}
		seen[ref] = true
	}

	refs := make([]LawRef, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].LawTitle != refs[j].LawTitle {
			return refs[i].LawTitle < refs[j].LawTitle
		}
		return refs[i].Article < refs[j].Article
	})
	return refs
}
