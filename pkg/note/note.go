// Package note renders and writes per-statute Markdown notes: a YAML front
// matter block carrying statute identity and fetch metadata, followed by the
// cross-linked body.
package note

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coolbeans/lawnote/pkg/egov"
	"github.com/coolbeans/lawnote/pkg/linkify"
)

// Extension is the note file extension.
const Extension = ".md"

// Render produces the full note file content for a statute: front matter
// plus the linked body with a single trailing newline.
func Render(contents *egov.LawContents, linkedBody string, depth int, fetchedAt time.Time) string {
	frontMatter := fmt.Sprintf(
		"---\nlaw_title: \"%s\"\nlaw_id: \"%s\"\nlaw_num: \"%s\"\nsource_api: \"v2\"\nfetched_at: \"%s\"\ndepth: %d\nhas_original_xml: %t\n---\n\n",
		escapeYAML(contents.LawTitle),
		escapeYAML(contents.LawID),
		escapeYAML(contents.LawNum),
		fetchedAt.UTC().Format(time.RFC3339),
		depth,
		contents.OriginalXML != "",
	)
	return frontMatter + strings.TrimRight(linkedBody, "\n") + "\n"
}

// escapeYAML escapes backslashes and double quotes so the value embeds safely
// in a double-quoted YAML scalar.
func escapeYAML(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `"`, `\"`)
}

// Writer writes statute notes into an output directory.
type Writer struct {
	// OutputDir is the directory notes are written into.
	OutputDir string

	// NoOverwrite makes writing fail when the note file already exists.
	NoOverwrite bool
}

// EnsureDir creates the output directory if needed.
func (writer *Writer) EnsureDir() error {
	if err := os.MkdirAll(writer.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", writer.OutputDir, err)
	}
	return nil
}

// Write persists a rendered note for lawTitle and returns the note file name
// (without extension). With NoOverwrite set, an existing file is an error.
func (writer *Writer) Write(lawTitle, rendered string) (string, error) {
	fileName := linkify.SanitizeFilename(lawTitle)
	path := filepath.Join(writer.OutputDir, fileName+Extension)

	if writer.NoOverwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("note already exists, skipping overwrite: %s", path)
		}
	}

	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("failed to write note %s: %w", path, err)
	}
	return fileName, nil
}
