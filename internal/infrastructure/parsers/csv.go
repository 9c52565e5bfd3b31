package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// CSVParser parses a character roster from CSV format. Multi-valued columns
// (perk_ids, distinction_ids) are semicolon-separated.
type CSVParser struct{}

// Parse reads CSV from the reader and returns a dataset holding the parsed
// characters.
// Expected columns: name (required), id, species, perk_ids, distinction_ids,
// location_id, location, notes.
func (p *CSVParser) Parse(r io.Reader) (*entities.Dataset, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	characters, err := p.readRecords(reader, colIndex)
	if err != nil {
		return nil, err
	}

	return &entities.Dataset{Characters: characters}, nil
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}

	if _, ok := colIndex["name"]; !ok {
		return nil, fmt.Errorf("missing required column: name")
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to characters.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]entities.Character, error) {
	var characters []entities.Character
	lineNum := 1 // Header is line 1
	now := time.Now()

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		field := func(name string) string {
			idx, ok := colIndex[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		name := field("name")
		if name == "" {
			return nil, fmt.Errorf("line %d: missing required field: name", lineNum)
		}

		id := field("id")
		if id == "" {
			id = entities.NewID()
		}

		characters = append(characters, entities.Character{
			ID:             id,
			Name:           name,
			Species:        field("species"),
			PerkIDs:        splitList(field("perk_ids")),
			DistinctionIDs: splitList(field("distinction_ids")),
			LocationID:     field("location_id"),
			LegacyLocation: field("location"),
			Notes:          field("notes"),
			Present:        true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return characters, nil
}

// splitList splits a semicolon-separated cell into trimmed values.
func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
