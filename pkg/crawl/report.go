package crawl

// Report summarizes one crawl run.
type Report struct {
	// Visited is the number of distinct statutes resolved and fetched.
	Visited int

	// NotesWritten is the number of note files emitted.
	NotesWritten int

	// Pruned is the number of branches dropped after a resolution failure
	// below the root.
	Pruned int

	// UnresolvedEvents is the number of unresolved-reference events recorded,
	// counting both pruned branches and anaphoric tokens in note bodies.
	UnresolvedEvents int

	// MaxDepthReached is the deepest level a note was written at.
	MaxDepthReached int
}

// recordDepth tracks the deepest emitted note.
func (report *Report) recordDepth(depth int) {
	if depth > report.MaxDepthReached {
		report.MaxDepthReached = depth
	}
}
