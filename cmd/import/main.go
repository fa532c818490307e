// Package main loads ingredient and tag fixtures into the foodgram database.
//
// Usage:
//
//	foodgram-import -ingredients-csv data/ingredients.csv -tags-json data/tags.json -- -data-path /var/lib/foodgram
//
// Arguments after "--" are passed to the server configuration loader.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/di"
	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("foodgram-import", flag.ContinueOnError)
	ingredientsCSV := fs.String("ingredients-csv", "", "CSV file of name,measurement_unit rows")
	ingredientsJSON := fs.String("ingredients-json", "", "JSON array of {name, measurement_unit}")
	tagsJSON := fs.String("tags-json", "", "JSON array of {name, slug}")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ingredientsCSV == "" && *ingredientsJSON == "" && *tagsJSON == "" {
		fs.Usage()
		return errors.New("nothing to import")
	}

	injector := di.NewContainer(fs.Args())
	defer func() { _ = injector.Shutdown() }()

	importer, err := do.Invoke[*service.ImportService](injector)
	if err != nil {
		return err
	}
	log := do.MustInvoke[*logger.Logger](injector)
	ctx := context.Background()

	jobs := []struct {
		kind string
		path string
		fn   func(context.Context, io.Reader) (*service.ImportResult, error)
	}{
		{"ingredients", *ingredientsCSV, importer.ImportIngredientsCSV},
		{"ingredients", *ingredientsJSON, importer.ImportIngredientsJSON},
		{"tags", *tagsJSON, importer.ImportTagsJSON},
	}

	for _, job := range jobs {
		if job.path == "" {
			continue
		}
		result, err := importFile(ctx, job.path, job.fn)
		if err != nil {
			return fmt.Errorf("%s from %s: %w", job.kind, job.path, err)
		}
		log.Info("import finished",
			"kind", job.kind,
			"file", job.path,
			"read", result.Read,
			"inserted", result.Inserted,
		)
	}
	return nil
}

func importFile(ctx context.Context, path string, fn func(context.Context, io.Reader) (*service.ImportResult, error)) (*service.ImportResult, error) {
	//#nosec G304 -- path is an operator-supplied fixture file
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fn(ctx, f)
}
