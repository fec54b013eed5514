package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsQualifiersAndMarkers(t *testing.T) {
	testCases := []struct {
		name     string
		fragment string
		expect   string
	}{
		{name: "bare title", fragment: "特許法", expect: "特許法"},
		{name: "former qualifier", fragment: "旧特許法", expect: "特許法"},
		{name: "new qualifier", fragment: "新特許法", expect: "特許法"},
		{name: "amendment chain", fragment: "この法律による改正後の特許法", expect: "特許法"},
		{name: "leaked article marker", fragment: "三第一条中特許法", expect: "特許法"},
		{name: "context phrase before connective", fragment: "規定中特許法", expect: "特許法"},
		{name: "surrounding brackets", fragment: "（民法）", expect: "民法"},
		{name: "quoted title", fragment: "「独占禁止法」", expect: "独占禁止法"},
		// Known heuristic imprecision: the inner 法 suffix ends the match, so
		// enforcement-order names truncate to the parent statute.
		{name: "enforcement order truncates at inner suffix", fragment: "特許法施行令", expect: "特許法"},
		{name: "innermost statute wins", fragment: "民法の規定による会社法", expect: "会社法"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			token, ok := Normalize(testCase.fragment)
			assert.True(t, ok, "expected %q to normalize", testCase.fragment)
			assert.Equal(t, testCase.expect, token)
		})
	}
}

func TestNormalizeRejectsAnaphoricAndNoise(t *testing.T) {
	testCases := []struct {
		name     string
		fragment string
	}{
		{name: "same act", fragment: "同法"},
		{name: "same statute", fragment: "同法律"},
		{name: "this act", fragment: "この法律"},
		{name: "this statute", fragment: "本法"},
		{name: "aforementioned act", fragment: "前記法"},
		{name: "quoted anaphora", fragment: "「同法」"},
		{name: "empty", fragment: ""},
		{name: "punctuation only", fragment: "（）「」"},
		{name: "no statute suffix", fragment: "附則"},
		{name: "single char residue", fragment: "第三条例"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			token, ok := Normalize(testCase.fragment)
			assert.False(t, ok, "expected %q to be rejected, got %q", testCase.fragment, token)
		})
	}
}

// Normalized output must never itself be anaphoric or shorter than two runes,
// whatever the input.
func TestNormalizeOutputInvariants(t *testing.T) {
	inputs := []string{
		"特許法", "旧同法", "新法", "この法律による改正前の民法", "一二三法",
		"同法第三条", "中中中法", "アイウ条約", "ＡＢＣ法",
	}

	for _, input := range inputs {
		token, ok := Normalize(input)
		if !ok {
			continue
		}
		assert.False(t, anaphoricTitles[token], "anaphoric token %q leaked from %q", token, input)
		assert.GreaterOrEqual(t, len([]rune(token)), 2, "short token %q from %q", token, input)
	}
}

func TestNormalizeFoldsFullwidthASCII(t *testing.T) {
	token, ok := Normalize("ＮＰＯ法")
	assert.True(t, ok)
	assert.Equal(t, "NPO法", token)
}
