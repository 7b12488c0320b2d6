package benchmark

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Document is one input file. It is loaded once and shared, unchanged, by every trial.
type Document struct {
	Name    string
	Content []byte
	Lines   int
}

func NewDocument(name string, content []byte) *Document {
	return &Document{
		Name:    name,
		Content: content,
		Lines:   bytes.Count(content, []byte{'\n'}),
	}
}

// FindFiles walks roots and returns the files whose base name fully matches pattern, in walk order.
// Names containing a dash are left out: they are usually templates or generated variants, not sources.
func FindFiles(roots []string, pattern string) ([]string, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern: %w", err)
	}

	var files []string
	seen := make(map[string]bool)

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			name := d.Name()
			if !re.MatchString(name) || strings.Contains(name, "-") {
				return nil
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if !seen[abs] {
				seen[abs] = true
				files = append(files, abs)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not list %s: %w", root, err)
		}
	}

	return files, nil
}

// LoadDocuments reads every file fully.
func LoadDocuments(filenames []string) ([]*Document, error) {
	docs := make([]*Document, 0, len(filenames))

	for _, filename := range filenames {
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("could not read source file %s: %w", filename, err)
		}

		docs = append(docs, NewDocument(filename, content))
	}

	return docs, nil
}
