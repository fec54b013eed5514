package crawl

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coolbeans/lawnote/pkg/dict"
	"github.com/coolbeans/lawnote/pkg/egov"
	"github.com/coolbeans/lawnote/pkg/extract"
	"github.com/coolbeans/lawnote/pkg/linkify"
	"github.com/coolbeans/lawnote/pkg/note"
	"github.com/coolbeans/lawnote/pkg/unresolved"
)

// Engine is the breadth-first statute crawler. It exclusively owns the
// frontier, visited set, dictionary, and unresolved accumulator for the
// duration of one run; the crawl is strictly sequential, so no locking is
// needed anywhere.
type Engine struct {
	config     Config
	api        LawAPI
	dictionary *dict.Dictionary
	selector   Selector
	writer     *note.Writer
	logger     *zap.Logger

	events []unresolved.Ref
}

// NewEngine creates an Engine. The dictionary is shared with the caller so a
// pre-populated dictionary carries into the crawl.
func NewEngine(config Config, api LawAPI, dictionary *dict.Dictionary, selector Selector, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		config:     config,
		api:        api,
		dictionary: dictionary,
		selector:   selector,
		writer:     &note.Writer{OutputDir: config.OutputDir, NoOverwrite: config.NoOverwrite},
		logger:     logger,
	}
}

// Run crawls breadth-first from rootTitle, writes one note per distinct
// statute, and persists the dictionary (when changed) and the merged
// unresolved-reference store (when events occurred) at the end. A resolution
// or fetch failure at the root aborts the run; resolution failures below the
// root prune that branch only.
func (engine *Engine) Run(ctx context.Context, rootTitle string) (*Report, error) {
	if err := engine.writer.EnsureDir(); err != nil {
		return nil, err
	}

	state := newCrawlState(rootTitle)
	report := &Report{}

	for {
		item, ok := state.dequeue()
		if !ok {
			break
		}
		if item.depth > engine.config.MaxDepth {
			continue
		}

		candidate, err := engine.resolveCandidate(ctx, item.title)
		if err != nil {
			if item.depth == 0 {
				return nil, err
			}
			engine.events = append(engine.events, unresolved.Ref{
				SourceLaw:     item.sourceLaw,
				Alias:         item.title,
				SampleContext: "referenced statute could not be resolved",
			})
			report.Pruned++
			engine.logger.Warn("skipping unresolvable reference",
				zap.String("title", item.title),
				zap.String("source", item.sourceLaw),
				zap.Error(err))
			continue
		}

		if !state.markVisited(candidate.IdentityKey()) {
			continue
		}

		engine.logger.Info("fetching statute",
			zap.String("title", candidate.LawTitle),
			zap.String("law_id", candidate.IDDisplay()),
			zap.Int("depth", item.depth))

		// A malformed or empty document cannot be safely salvaged, so any
		// fetch failure ends the whole run.
		contents, err := engine.api.FetchLawContents(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %q: %w", candidate.LawTitle, err)
		}

		if err := engine.writeNote(contents, item.depth); err != nil {
			return nil, err
		}
		report.Visited++
		report.NotesWritten++
		report.recordDepth(item.depth)

		for _, ref := range extract.ExternalReferences(contents.Text, engine.dictionary, contents.LawTitle) {
			state.enqueue(queueItem{title: ref.LawTitle, depth: item.depth + 1, sourceLaw: ref.SourceLaw})
		}
	}

	report.UnresolvedEvents = len(engine.events)
	engine.logUnresolved()
	if err := engine.persistState(); err != nil {
		return nil, err
	}
	return report, nil
}

// writeNote renders and writes one statute note, accumulating the anaphoric
// tokens the rewriter could not link.
func (engine *Engine) writeNote(contents *egov.LawContents, depth int) error {
	body := linkify.EnsureArticleHeadings(contents.Text)
	linked, tokens := linkify.Rewrite(body, contents.LawTitle, engine.config.OutputDir)
	for _, token := range tokens {
		engine.events = append(engine.events, unresolved.Ref{
			SourceLaw: contents.LawTitle,
			Alias:     token,
		})
	}

	rendered := note.Render(contents, linked, depth, time.Now())
	if _, err := engine.writer.Write(contents.LawTitle, rendered); err != nil {
		return err
	}
	engine.learnContents(contents)
	return nil
}

// logUnresolved emits the end-of-run summary of unresolved references.
func (engine *Engine) logUnresolved() {
	if len(engine.events) == 0 {
		return
	}
	engine.logger.Info("unresolved references", zap.Int("count", len(engine.events)))
	for _, event := range engine.events {
		engine.logger.Warn("unresolved reference",
			zap.String("source", event.SourceLaw),
			zap.String("alias", event.Alias))
	}
}

// persistState saves the dictionary when dirty and merges this run's
// unresolved events into the persisted store.
func (engine *Engine) persistState() error {
	if err := engine.dictionary.Save(engine.config.DictPath); err != nil {
		return err
	}
	if len(engine.events) == 0 {
		return nil
	}

	store, err := unresolved.Load(engine.config.UnresolvedPath)
	if err != nil {
		return err
	}
	store.Merge(engine.events, time.Now())
	return store.Save(engine.config.UnresolvedPath)
}
