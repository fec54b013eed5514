package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/lawnote/pkg/dict"
)

func TestExternalReferencesFindsAndDeduplicates(t *testing.T) {
	dictionary := dict.New()
	text := "民法第90条の規定は、民法第90条及び商法第1条について準用する。"

	refs := ExternalReferences(text, dictionary, "特許法")

	require.Len(t, refs, 2, "duplicate citations collapse to one reference")
	assert.Equal(t, LawRef{SourceLaw: "特許法", LawTitle: "商法", Article: "第1条"}, refs[0])
	assert.Equal(t, LawRef{SourceLaw: "特許法", LawTitle: "民法", Article: "第90条"}, refs[1])
}

func TestExternalReferencesKanjiNumerals(t *testing.T) {
	dictionary := dict.New()

	refs := ExternalReferences("刑法第百九十九条を参照。", dictionary, "刑事訴訟法")

	require.Len(t, refs, 1)
	assert.Equal(t, "刑法", refs[0].LawTitle)
	assert.Equal(t, "第百九十九条", refs[0].Article)
}

func TestExternalReferencesResolvesThroughDictionary(t *testing.T) {
	dictionary := dict.New()
	dictionary.Register("独占禁止法", dict.Entry{LawTitle: "私的独占の禁止及び公正取引の確保に関する法律"})

	refs := ExternalReferences("独占禁止法第3条に違反する。", dictionary, "会社法")

	require.Len(t, refs, 1)
	assert.Equal(t, "私的独占の禁止及び公正取引の確保に関する法律", refs[0].LawTitle)
}

func TestExternalReferencesSkipsAnaphoricNames(t *testing.T) {
	dictionary := dict.New()

	refs := ExternalReferences("同法第5条の規定による。", dictionary, "民法")

	assert.Empty(t, refs, "anaphoric statute names produce no crawl edges")
}

func TestExternalReferencesIgnoresBareArticles(t *testing.T) {
	dictionary := dict.New()

	refs := ExternalReferences("第3条及び第4条の規定を適用する。", dictionary, "民法")

	assert.Empty(t, refs, "bare internal article references are not external")
}
