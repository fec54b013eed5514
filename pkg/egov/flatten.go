package egov

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// blockTags is the set of law_full_text node tags that correspond to statute
// structure blocks. Block boundaries force a newline before and after the
// block's content so the flattened text stays readable.
var blockTags = map[string]bool{
	"Law":            true,
	"LawBody":        true,
	"MainProvision":  true,
	"Part":           true,
	"Chapter":        true,
	"Section":        true,
	"Subsection":     true,
	"Division":       true,
	"Article":        true,
	"Paragraph":      true,
	"Item":           true,
	"Subitem":        true,
	"SupplProvision": true,
	"AppdxTable":     true,
	"AppdxNote":      true,
	"AppdxStyle":     true,
	"Appdx":          true,
}

var (
	reRunsOfSpace = regexp.MustCompile(`[ \t]+`)
	reManyBlanks  = regexp.MustCompile(`\n{3,}`)
)

// FlattenLawFullText converts the recursive law_full_text JSON tree into plain
// text: leaf strings are concatenated verbatim, block-tag boundaries become
// newlines, runs of spaces collapse, and blank lines are dropped. An empty
// result is an error, since an empty note is worse than failing loudly.
func FlattenLawFullText(raw json.RawMessage) (string, error) {
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		return "", fmt.Errorf("failed to decode law_full_text: %w", err)
	}

	var builder strings.Builder
	appendNodeText(node, &builder)

	text := reRunsOfSpace.ReplaceAllString(builder.String(), " ")
	text = reManyBlanks.ReplaceAllString(text, "\n\n")

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for line := range strings.Lines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	text = strings.Join(lines, "\n")

	if text == "" {
		return "", fmt.Errorf("law_full_text contains no extractable body text")
	}
	return text, nil
}

// appendNodeText walks one law_full_text node. A node is either a leaf string,
// an array of nodes, or a tagged object holding children.
func appendNodeText(node any, builder *strings.Builder) {
	switch value := node.(type) {
	case string:
		builder.WriteString(value)
	case []any:
		for _, child := range value {
			appendNodeText(child, builder)
		}
	case map[string]any:
		tag, _ := value["tag"].(string)
		isBlock := blockTags[tag]
		if isBlock {
			ensureTrailingNewline(builder)
		}

		if children, ok := value["children"]; ok {
			appendNodeText(children, builder)
		} else {
			for _, child := range value {
				appendNodeText(child, builder)
			}
		}

		if isBlock {
			ensureTrailingNewline(builder)
		}
	}
}

// ensureTrailingNewline appends a newline unless the builder already ends
// with one.
func ensureTrailingNewline(builder *strings.Builder) {
	if s := builder.String(); s != "" && !strings.HasSuffix(s, "\n") {
		builder.WriteByte('\n')
	}
}
