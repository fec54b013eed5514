package crawl

import (
	"context"
	"fmt"

	"github.com/coolbeans/lawnote/pkg/dict"
	"github.com/coolbeans/lawnote/pkg/egov"
)

// resolveCandidate turns a statute title into a single concrete candidate.
// The dictionary is consulted first so repeated references never re-query the
// network; otherwise the search API is asked and the result disambiguated:
// zero candidates fail, exactly one is accepted and its aliases learned,
// several are narrowed by an exact-title filter in non-interactive mode or
// put to the selector otherwise.
func (engine *Engine) resolveCandidate(ctx context.Context, lawTitle string) (egov.LawCandidate, error) {
	if entry, found := engine.dictionary.Lookup(lawTitle); found {
		return egov.LawCandidate{
			LawID:    entry.LawID,
			LawNum:   entry.LawNum,
			LawTitle: entry.LawTitle,
		}, nil
	}

	candidates, err := engine.api.SearchLaws(ctx, lawTitle)
	if err != nil {
		return egov.LawCandidate{}, fmt.Errorf("search failed for %q: %w", lawTitle, err)
	}
	if len(candidates) == 0 {
		return egov.LawCandidate{}, fmt.Errorf("no statute found for %q", lawTitle)
	}
	if len(candidates) == 1 {
		engine.learnAliases(lawTitle, candidates[0])
		return candidates[0], nil
	}

	if engine.config.NonInteractive {
		exact := exactTitleMatches(lawTitle, candidates)
		if len(exact) == 1 {
			engine.learnAliases(lawTitle, exact[0])
			return exact[0], nil
		}
		return egov.LawCandidate{}, fmt.Errorf(
			"%d candidates for %q cannot be auto-resolved in non-interactive mode", len(candidates), lawTitle)
	}

	index, err := engine.selector.Select(lawTitle, candidates)
	if err != nil {
		return egov.LawCandidate{}, fmt.Errorf("candidate selection failed for %q: %w", lawTitle, err)
	}
	if index < 0 || index >= len(candidates) {
		return egov.LawCandidate{}, fmt.Errorf("candidate index %d out of range for %q", index, lawTitle)
	}
	chosen := candidates[index]
	engine.learnAliases(lawTitle, chosen)
	return chosen, nil
}

// exactTitleMatches is the pure non-interactive disambiguation: keep only
// candidates whose canonical title equals the query.
func exactTitleMatches(lawTitle string, candidates []egov.LawCandidate) []egov.LawCandidate {
	var exact []egov.LawCandidate
	for _, candidate := range candidates {
		if candidate.LawTitle == lawTitle {
			exact = append(exact, candidate)
		}
	}
	return exact
}

// learnAliases registers both the queried surface form and the canonical
// title for a confirmed candidate.
func (engine *Engine) learnAliases(query string, candidate egov.LawCandidate) {
	entry := dict.Entry{
		LawID:    candidate.LawID,
		LawNum:   candidate.LawNum,
		LawTitle: candidate.LawTitle,
	}
	engine.dictionary.Register(query, entry)
	engine.dictionary.Register(candidate.LawTitle, entry)
}

// learnContents registers the canonical title confirmed by a fetch.
func (engine *Engine) learnContents(contents *egov.LawContents) {
	engine.dictionary.Register(contents.LawTitle, dict.Entry{
		LawID:    contents.LawID,
		LawNum:   contents.LawNum,
		LawTitle: contents.LawTitle,
	})
}
