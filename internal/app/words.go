package app

import (
	"bufio"
	_ "embed"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Small built-in lists so the server runs without any word files configured

//go:embed prefixes.txt
var embeddedPrefixes string

//go:embed suffixes.txt
var embeddedSuffixes string

// WordLists holds the prefix and suffix words used to build stems
type WordLists struct {
	Prefixes []string
	Suffixes []string
}

// DefaultWordLists returns the embedded lists
func DefaultWordLists() *WordLists {
	return &WordLists{
		Prefixes: parseEmbedded(embeddedPrefixes),
		Suffixes: parseEmbedded(embeddedSuffixes),
	}
}

// LoadWordLists reads both lists once at startup. An empty path selects the
// embedded list. A file that cannot be read degrades to an empty list.
func LoadWordLists(prefixesPath, suffixesPath string, logger *slog.Logger) *WordLists {
	defaults := DefaultWordLists()

	lists := &WordLists{
		Prefixes: loadWordList(prefixesPath, defaults.Prefixes, logger),
		Suffixes: loadWordList(suffixesPath, defaults.Suffixes, logger),
	}

	logger.Info("word lists loaded", "prefixes", len(lists.Prefixes), "suffixes", len(lists.Suffixes))
	if len(lists.Prefixes) == 0 && len(lists.Suffixes) == 0 {
		logger.Warn("both word lists are empty, stems will be a bare blank")
	}

	return lists
}

func loadWordList(path string, fallback []string, logger *slog.Logger) []string {
	if path == "" {
		return fallback
	}

	words, err := readWordFile(path)
	if err != nil {
		logger.Warn("failed to read word list", "path", path, "error", err)
		return []string{}
	}
	return words
}

// readWordFile loads one word per line from a file
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return scanWords(f)
}

// scanWords trims each line and drops blank ones
func scanWords(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	out := make([]string, 0, 32)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func parseEmbedded(text string) []string {
	words, _ := scanWords(strings.NewReader(text))
	return words
}
