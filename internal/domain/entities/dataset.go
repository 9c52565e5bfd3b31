package entities

import "time"

// DatasetVersion is the current schema version written on export.
const DatasetVersion = "1.0"

// Dataset is the stable import/export shape for the campaign collections.
// Any subset of the arrays may be present in an imported payload; absent
// arrays are treated as empty and never clear stored collections during a
// merge import.
type Dataset struct {
	Characters  []Character `json:"characters"`
	Factions    []Faction   `json:"factions"`
	Locations   []Location  `json:"locations"`
	Events      []Event     `json:"events"`
	Version     string      `json:"version"`
	LastUpdated time.Time   `json:"lastUpdated"`
}

// NewDataset returns an empty dataset stamped with the current version.
func NewDataset() *Dataset {
	return &Dataset{
		Characters:  []Character{},
		Factions:    []Faction{},
		Locations:   []Location{},
		Events:      []Event{},
		Version:     DatasetVersion,
		LastUpdated: time.Now(),
	}
}
