package batchTranslator

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"

	"github.com/Checkmarx/sbom-translator/pkg/sbomTranslator"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var DefaultInclude = []string{"**/*.spdx", "**/*.json", "**/*.xml"}

type Options struct {
	// Workers bounds the number of documents translated at once. Zero or less
	// means one worker per CPU.
	Workers int
	// Include holds doublestar patterns matched against slash separated paths
	// relative to the walked directory. Empty means DefaultInclude.
	Include    []string
	Translator sbomTranslator.SbomTranslator
}

type Document struct {
	Path   string
	Result *sbomTranslator.Result
}

type Failure struct {
	Path string
	Err  error
}

// Batch is the outcome of a directory walk. Documents and Failures are
// ordered by path.
type Batch struct {
	Documents []Document
	Failures  []Failure
}

// TranslateDirectory translates every matching document under dir in
// parallel. A document that fails to translate is logged and reported in
// Failures without stopping the others. Cancellation is only observed between
// documents.
func TranslateDirectory(ctx context.Context, dir string, options Options) (*Batch, error) {
	include := options.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	translator := options.Translator
	if translator == nil {
		translator = sbomTranslator.NewSbomTranslator()
	}

	workers := options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	paths, err := findDocuments(dir, include)
	if err != nil {
		return nil, err
	}
	log.Debug().Msgf("found %d documents under %s", len(paths), dir)

	results := make([]*sbomTranslator.Result, len(paths))
	failures := make([]error, len(paths))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		if groupCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := translator.Translate(filepath.Join(dir, filepath.FromSlash(path)))
			if err != nil {
				log.Err(err).Msgf("skipping %s", path)
				failures[i] = err
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &Batch{}
	for i, path := range paths {
		if failures[i] != nil {
			batch.Failures = append(batch.Failures, Failure{Path: path, Err: failures[i]})
			continue
		}
		batch.Documents = append(batch.Documents, Document{Path: path, Result: results[i]})
	}

	log.Debug().Msgf("translated %d documents under %s, %d failed", len(batch.Documents), dir, len(batch.Failures))

	return batch, nil
}

// findDocuments returns the slash separated relative paths of the regular
// files under dir matching any of the patterns, in lexical order.
func findDocuments(dir string, include []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		relative, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		relative = filepath.ToSlash(relative)

		for _, pattern := range include {
			if doublestar.MatchUnvalidated(pattern, relative) {
				paths = append(paths, relative)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not walk %s: %w", dir, err)
	}
	return paths, nil
}
