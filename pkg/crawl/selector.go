package crawl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/coolbeans/lawnote/pkg/egov"
)

// TerminalSelector presents numbered candidates on a writer and reads the
// chosen number from a reader, normally stdout/stdin.
type TerminalSelector struct {
	In  io.Reader
	Out io.Writer
}

// Select prints the candidates and returns the zero-based index the user
// picked.
func (selector *TerminalSelector) Select(lawTitle string, candidates []egov.LawCandidate) (int, error) {
	fmt.Fprintf(selector.Out, "複数候補が見つかりました: %s\n", lawTitle)
	for i, candidate := range candidates {
		lawNum := candidate.LawNum
		if lawNum == "" {
			lawNum = "-"
		}
		promulgation := candidate.PromulgationDate
		if promulgation == "" {
			promulgation = "-"
		}
		fmt.Fprintf(selector.Out, "%d. %s / %s / %s / %s\n",
			i+1, candidate.LawTitle, candidate.IDDisplay(), lawNum, promulgation)
	}
	fmt.Fprint(selector.Out, "候補番号を入力してください: ")

	line, err := bufio.NewReader(selector.In).ReadString('\n')
	if err != nil && line == "" {
		return 0, fmt.Errorf("failed to read selection: %w", err)
	}
	chosen, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("selection must be a number: %w", err)
	}
	if chosen < 1 || chosen > len(candidates) {
		return 0, fmt.Errorf("selection %d out of range 1-%d", chosen, len(candidates))
	}
	return chosen - 1, nil
}
