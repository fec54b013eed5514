package crawl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/lawnote/pkg/dict"
	"github.com/coolbeans/lawnote/pkg/egov"
	"github.com/coolbeans/lawnote/pkg/unresolved"
)

// fakeAPI serves canned candidates and bodies for engine tests.
type fakeAPI struct {
	candidates map[string][]egov.LawCandidate
	bodies     map[string]string // law ID -> body text
	searches   int
	fetches    int
}

func (api *fakeAPI) SearchLaws(_ context.Context, lawTitle string) ([]egov.LawCandidate, error) {
	api.searches++
	return api.candidates[lawTitle], nil
}

func (api *fakeAPI) FetchLawContents(_ context.Context, candidate egov.LawCandidate) (*egov.LawContents, error) {
	api.fetches++
	body, found := api.bodies[candidate.LawID]
	if !found {
		return nil, fmt.Errorf("no body for %s", candidate.LawID)
	}
	return &egov.LawContents{
		LawID:    candidate.LawID,
		LawNum:   candidate.LawNum,
		LawTitle: candidate.LawTitle,
		Text:     body,
	}, nil
}

// fixedSelector always picks the same index.
type fixedSelector struct {
	index int
	calls int
}

func (selector *fixedSelector) Select(string, []egov.LawCandidate) (int, error) {
	selector.calls++
	return selector.index, nil
}

func singleCandidate(id, lawTitle string) []egov.LawCandidate {
	return []egov.LawCandidate{{LawID: id, LawTitle: lawTitle}}
}

func testConfig(t *testing.T, maxDepth int) Config {
	t.Helper()
	root := t.TempDir()
	return Config{
		OutputDir:      filepath.Join(root, "laws"),
		MaxDepth:       maxDepth,
		NonInteractive: true,
		DictPath:       filepath.Join(root, "data", "law_name_dict.json"),
		UnresolvedPath: filepath.Join(root, "data", "unresolved_refs.json"),
	}
}

func TestRunDepthZeroEmitsOnlyRoot(t *testing.T) {
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"特許法": singleCandidate("patent", "特許法"),
		},
		bodies: map[string]string{
			"patent": "第一条 民法第90条を参照する。",
		},
	}
	config := testConfig(t, 0)

	report, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "特許法")
	require.NoError(t, err)

	assert.Equal(t, 1, report.NotesWritten)
	assert.Equal(t, 1, api.fetches, "outbound references must not be followed at depth 0")

	entries, err := os.ReadDir(config.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "特許法.md", entries[0].Name())
}

func TestRunFollowsReferencesAndDeduplicatesDiamond(t *testing.T) {
	// 特許法 cites 民法 and 商法; both cite 刑法. 刑法 must be fetched once.
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"特許法": singleCandidate("patent", "特許法"),
			"民法":  singleCandidate("civil", "民法"),
			"商法":  singleCandidate("commercial", "商法"),
			"刑法":  singleCandidate("penal", "刑法"),
		},
		bodies: map[string]string{
			"patent":     "民法第90条及び商法第1条を参照する。",
			"civil":      "刑法第199条を参照する。",
			"commercial": "刑法第199条を参照する。",
			"penal":      "これ以上の参照はない。",
		},
	}
	config := testConfig(t, 2)

	report, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "特許法")
	require.NoError(t, err)

	assert.Equal(t, 4, report.NotesWritten)
	assert.Equal(t, 4, api.fetches, "the diamond target is fetched exactly once")
	assert.Equal(t, 2, report.MaxDepthReached)

	entries, err := os.ReadDir(config.OutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestRunRootResolutionFailureAborts(t *testing.T) {
	api := &fakeAPI{candidates: map[string][]egov.LawCandidate{}}
	config := testConfig(t, 2)

	_, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "存在しない法")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no statute found")
}

func TestRunPrunesUnresolvableBranches(t *testing.T) {
	// 民法 exists; its reference to 商法 does not resolve.
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"民法": singleCandidate("civil", "民法"),
		},
		bodies: map[string]string{
			"civil": "商法第1条を参照する。",
		},
	}
	config := testConfig(t, 2)

	report, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "民法")
	require.NoError(t, err, "failures below the root must not abort the run")

	assert.Equal(t, 1, report.NotesWritten)
	assert.Equal(t, 1, report.Pruned)

	store, err := unresolved.Load(config.UnresolvedPath)
	require.NoError(t, err)
	require.Len(t, store.Items, 1)
	assert.Equal(t, "民法", store.Items[0].SourceLaw)
	assert.Equal(t, "商法", store.Items[0].Alias)
	assert.Equal(t, unresolved.StatusPending, store.Items[0].Status)
}

func TestRunRecordsAnaphoricTokens(t *testing.T) {
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"民法": singleCandidate("civil", "民法"),
		},
		bodies: map[string]string{
			"civil": "第一条 要件を定める。\n前条の規定を準用する。",
		},
	}
	config := testConfig(t, 0)

	report, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "民法")
	require.NoError(t, err)
	assert.Equal(t, 1, report.UnresolvedEvents)

	raw, err := os.ReadFile(filepath.Join(config.OutputDir, "民法.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "前条", "anaphoric tokens stay verbatim in the note")

	store, err := unresolved.Load(config.UnresolvedPath)
	require.NoError(t, err)
	require.Len(t, store.Items, 1)
	assert.Equal(t, "前条", store.Items[0].Alias)
}

func TestRunNonInteractiveExactTitleFilter(t *testing.T) {
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"民法": {
				{LawID: "old-civil", LawTitle: "旧民法"},
				{LawID: "civil", LawTitle: "民法"},
			},
		},
		bodies: map[string]string{
			"civil": "本則を定める。",
		},
	}
	config := testConfig(t, 0)

	report, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "民法")
	require.NoError(t, err)
	assert.Equal(t, 1, report.NotesWritten)
}

func TestRunNonInteractiveAmbiguousRootFails(t *testing.T) {
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"建築基準法": {
				{LawID: "a", LawTitle: "建築基準法施行令"},
				{LawID: "b", LawTitle: "建築基準法施行規則"},
			},
		},
	}
	config := testConfig(t, 0)

	_, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "建築基準法")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-interactive")
}

func TestRunInteractiveSelectorChoosesCandidate(t *testing.T) {
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"民法": {
				{LawID: "old-civil", LawTitle: "旧民法"},
				{LawID: "civil", LawTitle: "民法明治二十九年"},
			},
		},
		bodies: map[string]string{
			"civil": "本則を定める。",
		},
	}
	config := testConfig(t, 0)
	config.NonInteractive = false
	selector := &fixedSelector{index: 1}

	report, err := NewEngine(config, api, dict.New(), selector, nil).Run(context.Background(), "民法")
	require.NoError(t, err)
	assert.Equal(t, 1, selector.calls)
	assert.Equal(t, 1, report.NotesWritten)
}

func TestRunFetchFailureIsFatal(t *testing.T) {
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"民法": singleCandidate("civil", "民法"),
		},
		bodies: map[string]string{},
	}
	config := testConfig(t, 0)

	_, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "民法")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch")
}

func TestRunPersistsDictionaryOnlyWhenDirty(t *testing.T) {
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"民法": singleCandidate("civil", "民法"),
		},
		bodies: map[string]string{
			"civil": "本則を定める。",
		},
	}
	config := testConfig(t, 0)

	// First run learns the alias and writes the dictionary.
	_, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "民法")
	require.NoError(t, err)
	info, err := os.Stat(config.DictPath)
	require.NoError(t, err, "a run with insertions must persist the dictionary")

	// Second run resolves from the loaded dictionary: no searches, no
	// insertions, no rewrite of the file.
	dictionary, err := dict.Load(config.DictPath)
	require.NoError(t, err)
	config.NoOverwrite = false
	_, err = NewEngine(config, api, dictionary, nil, nil).Run(context.Background(), "民法")
	require.NoError(t, err)

	assert.Equal(t, 1, api.searches, "second run must resolve from the dictionary")
	afterInfo, err := os.Stat(config.DictPath)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), afterInfo.ModTime(), "clean dictionary must not be rewritten")
}

func TestRunNoteCarriesFrontMatterAndLinks(t *testing.T) {
	api := &fakeAPI{
		candidates: map[string][]egov.LawCandidate{
			"刑法": singleCandidate("penal", "刑法"),
			"民法": singleCandidate("civil", "民法"),
		},
		bodies: map[string]string{
			"penal": "第一条 民法第90条及び第3条を参照する。",
			"civil": "本則を定める。",
		},
	}
	config := testConfig(t, 1)

	_, err := NewEngine(config, api, dict.New(), nil, nil).Run(context.Background(), "刑法")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(config.OutputDir, "刑法.md"))
	require.NoError(t, err)
	text := string(raw)

	assert.True(t, strings.HasPrefix(text, "---\n"))
	assert.Contains(t, text, `law_title: "刑法"`)
	assert.Contains(t, text, `source_api: "v2"`)
	assert.Contains(t, text, "depth: 0")
	assert.Contains(t, text, "## 第一条")
	assert.Contains(t, text, "民法#第90条|民法第90条]]")
	assert.Contains(t, text, "刑法#第3条|第3条]]")
}
