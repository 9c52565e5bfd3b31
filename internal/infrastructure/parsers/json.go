package parsers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// JSONParser parses the full dataset export shape. Any subset of the
// collection arrays may be present; absent arrays stay nil.
type JSONParser struct{}

// Parse reads JSON from the reader and returns the parsed dataset.
func (p *JSONParser) Parse(r io.Reader) (*entities.Dataset, error) {
	var dataset entities.Dataset

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&dataset); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return &dataset, nil
}
