package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/normalize"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
	"github.com/foodgram/foodgram-server/internal/validation"
)

// ImportResult reports how many records were read and how many were new.
type ImportResult struct {
	Read     int
	Inserted int
}

// ImportService loads tag and ingredient reference data. Imports are
// idempotent: records already present are skipped.
type ImportService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(store *sqlite.Store, validator *validation.Validator, logger *slog.Logger) *ImportService {
	return &ImportService{store: store, validator: validator, logger: logger}
}

type ingredientRecord struct {
	Name            string `json:"name" validate:"required,max=128"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=64"`
}

type tagRecord struct {
	Name string `json:"name" validate:"required,max=32"`
	Slug string `json:"slug" validate:"required,max=32,slug"`
}

// ImportIngredientsCSV reads "name,measurement_unit" rows. A first row of
// exactly "name,measurement_unit" is treated as a header.
func (s *ImportService) ImportIngredientsCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var records []ingredientRecord
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 && strings.EqualFold(row[0], "name") && strings.EqualFold(row[1], "measurement_unit") {
			continue
		}
		records = append(records, ingredientRecord{Name: row[0], MeasurementUnit: row[1]})
	}

	return s.importIngredients(ctx, records)
}

// ImportIngredientsJSON reads a JSON array of {"name", "measurement_unit"} objects.
func (s *ImportService) ImportIngredientsJSON(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var records []ingredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return s.importIngredients(ctx, records)
}

// ImportTagsJSON reads a JSON array of {"name", "slug"} objects. A missing
// slug is derived from the name.
func (s *ImportService) ImportTagsJSON(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var records []tagRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	tags := make([]*domain.Tag, 0, len(records))
	for i, rec := range records {
		rec.Name = normalize.Clean(rec.Name)
		rec.Slug = normalize.Clean(rec.Slug)
		if rec.Slug == "" {
			rec.Slug = normalize.Slugify(rec.Name)
		}
		if err := s.validator.Validate(rec); err != nil {
			return nil, recordError(i, err)
		}
		tags = append(tags, &domain.Tag{Name: rec.Name, Slug: rec.Slug})
	}

	inserted, err := s.store.ImportTags(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("import tags: %w", err)
	}

	s.logger.Info("tags imported", "read", len(tags), "inserted", inserted)
	return &ImportResult{Read: len(tags), Inserted: inserted}, nil
}

func (s *ImportService) importIngredients(ctx context.Context, records []ingredientRecord) (*ImportResult, error) {
	ingredients := make([]*domain.Ingredient, 0, len(records))
	for i, rec := range records {
		rec.Name = normalize.Clean(rec.Name)
		rec.MeasurementUnit = normalize.Clean(rec.MeasurementUnit)
		if err := s.validator.Validate(rec); err != nil {
			return nil, recordError(i, err)
		}
		ingredients = append(ingredients, &domain.Ingredient{Name: rec.Name, MeasurementUnit: rec.MeasurementUnit})
	}

	inserted, err := s.store.ImportIngredients(ctx, ingredients)
	if err != nil {
		return nil, fmt.Errorf("import ingredients: %w", err)
	}

	s.logger.Info("ingredients imported", "read", len(ingredients), "inserted", inserted)
	return &ImportResult{Read: len(ingredients), Inserted: inserted}, nil
}

// recordError prefixes a validation error with the 1-based record number.
func recordError(i int, err error) error {
	var de *domainerrors.Error
	if errors.As(err, &de) {
		return domainerrors.Wrapf(err, de.Code, "record %d: %s", i+1, de.Message).WithDetails(de.Details)
	}
	return fmt.Errorf("record %d: %w", i+1, err)
}
