package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"task-lab/errors"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// WordList is the merged content of the censored dictionaries.
type WordList struct {
	Words     []string
	Languages []string
}

// LoadEmbedded reads the dictionaries shipped with the binary.
func LoadEmbedded() (WordList, error) {
	return LoadWordLists(censoredFolder, "censored")
}

// LoadWordLists reads every .txt file of dir, one word per line.
// The file name without extension is the language ("fr.txt" -> "fr").
func LoadWordLists(fsys fs.FS, dir string) (WordList, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return WordList{}, err
	}

	var languages []string
	unique := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return WordList{}, err
		}

		// bufio handles \n and \r\n alike
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				unique[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return WordList{}, err
		}
	}

	if len(unique) == 0 {
		return WordList{}, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	sort.Strings(words)
	return WordList{Words: words, Languages: languages}, nil
}
