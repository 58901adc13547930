// Package excel bulk-loads word/translation pairs from spreadsheet files.
package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/vocabbot/internal/cards"
	"github.com/example/vocabbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	WordColumn        string // Column with the word
	TranslationColumn string // Column with the translation
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn:        "A",
		TranslationColumn: "B",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportCards imports cards for one owner from an Excel or CSV file.
func ImportCards(ctx context.Context, registry *cards.Registry, owner models.Owner, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, registry, owner, config)
	}
	return importFromExcel(ctx, registry, owner, config)
}

// columnIndexes converts the configured column letters to 0-based indexes.
func columnIndexes(config ImportConfig) (word, translation int, err error) {
	w, err := excelize.ColumnNameToNumber(config.WordColumn)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid word column %q: %v", config.WordColumn, err)
	}
	t, err := excelize.ColumnNameToNumber(config.TranslationColumn)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid translation column %q: %v", config.TranslationColumn, err)
	}
	return w - 1, t - 1, nil
}

// importFromExcel imports cards from an Excel file
func importFromExcel(ctx context.Context, registry *cards.Registry, owner models.Owner, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	wordIdx, translationIdx, err := columnIndexes(config)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		processRow(ctx, registry, owner, row, wordIdx, translationIdx, i+1, result)
	}

	return result, nil
}

// importFromCSV imports cards from a CSV file
func importFromCSV(ctx context.Context, registry *cards.Registry, owner models.Owner, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	wordIdx, translationIdx, err := columnIndexes(config)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}
		if line < config.StartRow {
			continue
		}
		processRow(ctx, registry, owner, row, wordIdx, translationIdx, line, result)
	}

	return result, nil
}

// processRow adds one spreadsheet row as a card.
func processRow(ctx context.Context, registry *cards.Registry, owner models.Owner, row []string, wordIdx, translationIdx, line int, result *ImportResult) {
	result.TotalProcessed++

	var word, translation string
	if wordIdx < len(row) {
		word = strings.TrimSpace(row[wordIdx])
	}
	if translationIdx < len(row) {
		translation = strings.TrimSpace(row[translationIdx])
	}

	if word == "" && translation == "" {
		result.Skipped++
		return
	}

	if _, err := registry.Add(ctx, owner, word, translation); err != nil {
		if errors.Is(err, cards.ErrMalformedInput) {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: empty word or translation", line))
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", line, err))
		}
		return
	}
	result.Created++
}
