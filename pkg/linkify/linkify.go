// Package linkify rewrites rendered statute text into Obsidian-style
// cross-linked Markdown. External statute references become links into the
// referenced statute's note, bare article/paragraph/item references link into
// the current note, and anaphoric tokens that need discourse context are
// reported as unresolved instead of being guessed at.
package linkify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/lawnote/pkg/title"
)

// Compiled reference patterns. Numerals may be Arabic digits or kanji.
var (
	// reArticleLead matches a 第N条(のM) token at the start of a line, used
	// to promote article openings to headings.
	reArticleLead = regexp.MustCompile(`^(第[0-9一二三四五六七八九十百千〇]+条(?:の[0-9一二三四五六七八九十百千〇]+)?)`)

	// reExternalArticle matches <statute-name>第N条 cross-references.
	reExternalArticle = regexp.MustCompile(
		`([ぁ-んァ-ヶー一-龥A-Za-z0-9・（）()「」『』]{1,40}?(?:法|法律|政令|省令|府令|規則|条例|条約))第([0-9一二三四五六七八九十百千〇]+)条`)

	// reArticle matches a bare same-statute 第N条 reference.
	reArticle = regexp.MustCompile(`第([0-9一二三四五六七八九十百千〇]+)条`)

	// reParagraph matches a 第N項 paragraph reference.
	reParagraph = regexp.MustCompile(`第([0-9一二三四五六七八九十百千〇]+)項`)

	// reItem matches a 第N号 item reference.
	reItem = regexp.MustCompile(`第([0-9一二三四五六七八九十百千〇]+)号`)
)

// anaphoricTokens are relative references (preceding/following/same article,
// paragraph) that cannot be linked without discourse context the rewriter
// does not track. They are left verbatim and reported as unresolved.
var anaphoricTokens = []string{"前条", "前項", "次条", "同条", "同項"}

// EnsureArticleHeadings inserts a "## 第N条" heading above each line that
// opens with an article token, so article anchors resolve in the note.
// Existing heading lines pass through untouched.
func EnsureArticleHeadings(text string) string {
	var builder strings.Builder
	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\n")
		if strings.HasPrefix(line, "#") {
			builder.WriteString(line)
			builder.WriteByte('\n')
			continue
		}
		match := reArticleLead.FindStringSubmatch(line)
		if match == nil {
			builder.WriteString(line)
			builder.WriteByte('\n')
			continue
		}
		builder.WriteString("## ")
		builder.WriteString(match[1])
		builder.WriteByte('\n')
		if strings.TrimSpace(line) != match[1] {
			builder.WriteString(line)
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

// Rewrite converts the references in text into wiki links relative to
// outputDir, with currentTitle as the link target for internal references.
// Heading lines and already-linked lines pass through verbatim, so rewriting
// rewritten output is a no-op. Returns the linked text and the anaphoric
// tokens left unresolved.
func Rewrite(text, currentTitle, outputDir string) (string, []string) {
	linkDir := NoteDir(outputDir)
	selfTarget := NoteTarget(linkDir, currentTitle)

	var unresolved []string
	var builder strings.Builder
	lastArticleAnchor := ""

	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\n")

		// Already-linked and heading lines stay verbatim; headings still
		// advance the article anchor.
		if strings.HasPrefix(line, "#") || strings.Contains(line, "[[") {
			builder.WriteString(line)
			builder.WriteByte('\n')
			if anchor := headingAnchor(line); anchor != "" {
				lastArticleAnchor = anchor
			}
			continue
		}

		rewritten, placeholders := replaceExternalRefs(line, linkDir)

		rewritten = reArticle.ReplaceAllStringFunc(rewritten, func(match string) string {
			number := reArticle.FindStringSubmatch(match)[1]
			return fmt.Sprintf("[[%s#第%s条|第%s条]]", selfTarget, number, number)
		})

		rewritten = replaceAnchored(rewritten, reParagraph, selfTarget, lastArticleAnchor, "項")
		rewritten = replaceAnchored(rewritten, reItem, selfTarget, lastArticleAnchor, "号")

		for _, placeholder := range placeholders {
			rewritten = strings.Replace(rewritten, placeholder.key, placeholder.link, 1)
		}

		for _, token := range anaphoricTokens {
			if strings.Contains(rewritten, token) {
				unresolved = append(unresolved, token)
			}
		}

		if anchor := headingAnchor(rewritten); anchor != "" {
			lastArticleAnchor = anchor
		}
		builder.WriteString(rewritten)
		builder.WriteByte('\n')
	}

	return builder.String(), unresolved
}

// extPlaceholder pairs an opaque placeholder key with the link it stands for.
type extPlaceholder struct {
	key  string
	link string
}

// replaceExternalRefs substitutes external cross-references with placeholder
// keys so the later article/paragraph/item passes cannot re-match text inside
// an already-resolved link. The placeholders are swapped back afterwards.
func replaceExternalRefs(line, linkDir string) (string, []extPlaceholder) {
	var placeholders []extPlaceholder

	rewritten := reExternalArticle.ReplaceAllStringFunc(line, func(match string) string {
		groups := reExternalArticle.FindStringSubmatch(match)
		lawTitle, ok := title.Normalize(groups[1])
		if !ok {
			return match
		}
		number := groups[2]
		link := fmt.Sprintf("[[%s#第%s条|%s第%s条]]",
			NoteTarget(linkDir, lawTitle), number, lawTitle, number)
		key := fmt.Sprintf("__EXT_LINK_%d__", len(placeholders))
		placeholders = append(placeholders, extPlaceholder{key: key, link: link})
		return key
	})

	return rewritten, placeholders
}

// replaceAnchored links paragraph/item references at the most recent article
// heading. With no anchor seen yet there is nothing to link against, so the
// token stays as-is.
func replaceAnchored(line string, pattern *regexp.Regexp, selfTarget, anchor, unit string) string {
	return pattern.ReplaceAllStringFunc(line, func(match string) string {
		number := pattern.FindStringSubmatch(match)[1]
		if anchor == "" {
			return fmt.Sprintf("第%s%s", number, unit)
		}
		return fmt.Sprintf("[[%s#%s|第%s%s]]", selfTarget, anchor, number, unit)
	})
}

// headingAnchor extracts the 第N条 anchor token from a heading line, or ""
// when the line carries none.
func headingAnchor(line string) string {
	s := strings.TrimSpace(strings.TrimLeft(line, "#"))
	if !strings.HasPrefix(s, "第") {
		return ""
	}
	index := strings.Index(s, "条")
	if index < 0 {
		return ""
	}
	return s[:index+len("条")]
}
