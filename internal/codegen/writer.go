package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// WriteFiles writes each namespace's source unit under dir and returns
// the namespace to path map. Units are independent so writes run
// concurrently; any failure aborts the batch.
func (g *Generator) WriteFiles(dir string, files map[string]string) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	namespaces := make([]string, 0, len(files))
	for ns := range files {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	paths := make(map[string]string, len(files))
	var eg errgroup.Group
	eg.SetLimit(8)
	for _, ns := range namespaces {
		path := filepath.Join(dir, g.FileName(ns))
		paths[ns] = path
		content := files[ns]
		eg.Go(func() error {
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
