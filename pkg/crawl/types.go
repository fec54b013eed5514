// Package crawl drives the breadth-first statute crawl: it resolves titles to
// concrete statutes (dictionary first, then the search API, then interactive
// disambiguation), fetches bodies, emits cross-linked notes, and follows
// extracted references to a bounded depth.
package crawl

import (
	"context"

	"github.com/coolbeans/lawnote/pkg/egov"
)

// Default configuration values for the crawler.
const (
	// DefaultMaxDepth is the default maximum BFS depth for following
	// cross-references.
	DefaultMaxDepth = 2

	// DefaultOutputDir is the default note output directory.
	DefaultOutputDir = "laws"

	// DefaultDictPath is the default name dictionary location.
	DefaultDictPath = "data/law_name_dict.json"

	// DefaultUnresolvedPath is the default unresolved-reference store location.
	DefaultUnresolvedPath = "data/unresolved_refs.json"
)

// Config holds configuration for one crawl run.
type Config struct {
	// OutputDir is the directory notes are written into.
	OutputDir string

	// MaxDepth is the maximum BFS depth for following cross-references.
	MaxDepth int

	// NoOverwrite makes note writing fail when the file already exists.
	NoOverwrite bool

	// NonInteractive disables the disambiguation prompt; ambiguous searches
	// then resolve only through an exact-title filter.
	NonInteractive bool

	// DictPath is where the name dictionary is persisted.
	DictPath string

	// UnresolvedPath is where the unresolved-reference store is persisted.
	UnresolvedPath string
}

// DefaultConfig returns a Config with the standard defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir:      DefaultOutputDir,
		MaxDepth:       DefaultMaxDepth,
		DictPath:       DefaultDictPath,
		UnresolvedPath: DefaultUnresolvedPath,
	}
}

// LawAPI is the slice of the e-Gov client the crawler depends on.
// egov.Client satisfies it.
type LawAPI interface {
	SearchLaws(ctx context.Context, lawTitle string) ([]egov.LawCandidate, error)
	FetchLawContents(ctx context.Context, candidate egov.LawCandidate) (*egov.LawContents, error)
}

// Selector obtains one choice among multiple search candidates. The crawl
// algorithm stays testable without a terminal by plugging in a fake.
type Selector interface {
	// Select returns the index of the chosen candidate for the queried title.
	Select(lawTitle string, candidates []egov.LawCandidate) (int, error)
}

// queueItem is one entry in the BFS frontier.
type queueItem struct {
	// title is the statute title (or dictionary alias) to resolve.
	title string

	// depth is the BFS depth the title was discovered at.
	depth int

	// sourceLaw is the statute whose text referenced this title.
	sourceLaw string
}
