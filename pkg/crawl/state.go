package crawl

// crawlState owns the BFS frontier and visited set for one run. It is
// process-local and exclusively owned by the engine; nothing about it is
// persisted.
type crawlState struct {
	frontier []queueItem
	visited  map[string]bool
}

// newCrawlState creates a state seeded with the root title at depth zero.
func newCrawlState(rootTitle string) *crawlState {
	return &crawlState{
		frontier: []queueItem{{title: rootTitle, depth: 0, sourceLaw: rootTitle}},
		visited:  make(map[string]bool),
	}
}

// enqueue appends an item to the frontier.
func (state *crawlState) enqueue(item queueItem) {
	state.frontier = append(state.frontier, item)
}

// dequeue removes and returns the next frontier item. The second return is
// false when the frontier is empty.
func (state *crawlState) dequeue() (queueItem, bool) {
	if len(state.frontier) == 0 {
		return queueItem{}, false
	}
	next := state.frontier[0]
	state.frontier = state.frontier[1:]
	return next, true
}

// markVisited records an identity key as visited. Reports false when the key
// was already present.
func (state *crawlState) markVisited(identityKey string) bool {
	if state.visited[identityKey] {
		return false
	}
	state.visited[identityKey] = true
	return true
}
