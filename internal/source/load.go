package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ontoqa/internal/graph"
	"ontoqa/internal/storage"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// ErrNoSources is returned when no pattern matches a file.
var ErrNoSources = errors.New("no triple sources found")

// Expand resolves each pattern (a path or a doublestar glob such as
// "data/**/*.csv") to files. Matches of one pattern are sorted; a file matched
// by several patterns is returned once, at its first position.
func Expand(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob error for %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, strings.Join(patterns, ", "))
	}
	return files, nil
}

// Load reads triples from every file matched by patterns, in order.
func Load(ctx context.Context, patterns ...string) ([]graph.Triple, error) {
	files, err := Expand(patterns...)
	if err != nil {
		return nil, err
	}

	var all []graph.Triple
	for _, path := range files {
		triples, err := LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"path":    path,
			"triples": len(triples),
		}).Info("Loaded triple source")
		all = append(all, triples...)
	}
	return all, nil
}

// LoadFile reads one file, choosing the format by extension.
func LoadFile(ctx context.Context, path string) ([]graph.Triple, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readFile(path, ReadCSV)
	case ".yaml", ".yml":
		return readFile(path, ReadYAML)
	case ".db", ".sqlite", ".sqlite3":
		store, err := storage.OpenSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer store.Close()
		return store.LoadTriples(ctx)
	default:
		return nil, fmt.Errorf("unsupported source format %q: %s", ext, path)
	}
}

func readFile(path string, read func(io.Reader) ([]graph.Triple, error)) ([]graph.Triple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	triples, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return triples, nil
}
