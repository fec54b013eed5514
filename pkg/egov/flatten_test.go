package egov

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenLawFullTextExtractsBody(t *testing.T) {
	raw := json.RawMessage(`{
		"tag": "Law",
		"children": [{
			"tag": "Article",
			"children": [
				{"tag": "ArticleTitle", "children": ["第一条"]},
				{"tag": "Paragraph", "children": [
					{"tag": "Sentence", "children": ["この法律は、テストとする。"]}
				]}
			]
		}]
	}`)

	text, err := FlattenLawFullText(raw)
	require.NoError(t, err)
	assert.Contains(t, text, "第一条")
	assert.Contains(t, text, "この法律は、テストとする。")
}

func TestFlattenLawFullTextSeparatesBlocks(t *testing.T) {
	raw := json.RawMessage(`{
		"tag": "Law",
		"children": [
			{"tag": "Article", "children": ["第一条 総則"]},
			{"tag": "Article", "children": ["第二条 定義"]}
		]
	}`)

	text, err := FlattenLawFullText(raw)
	require.NoError(t, err)
	assert.Equal(t, "第一条 総則\n第二条 定義", text)
}

func TestFlattenLawFullTextCollapsesWhitespace(t *testing.T) {
	raw := json.RawMessage(`{"tag": "Law", "children": ["第一条\t  この法律は  テストとする。"]}`)

	text, err := FlattenLawFullText(raw)
	require.NoError(t, err)
	assert.Equal(t, "第一条 この法律は テストとする。", text)
}

func TestFlattenLawFullTextEmptyBodyIsError(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "empty object", raw: `{"tag": "Law", "children": []}`},
		{name: "whitespace only", raw: `{"tag": "Law", "children": ["   \n  "]}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := FlattenLawFullText(json.RawMessage(testCase.raw))
			assert.Error(t, err)
		})
	}
}

func TestFlattenLawFullTextMalformedJSONIsError(t *testing.T) {
	_, err := FlattenLawFullText(json.RawMessage(`{"tag": `))
	assert.Error(t, err)
}
