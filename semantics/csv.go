package semantics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// UniverseFromCSV reads a universe from CSV data. Each row describes one
// referent and each column one property. A "name" column is required; an
// optional "probability" column supplies the prior. Remaining cells are
// parsed as booleans or numbers where possible and kept as strings
// otherwise.
func UniverseFromCSV(r io.Reader) (*Universe, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading universe csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("universe csv needs a header row and at least one referent row")
	}

	header := records[0]
	nameCol, probCol := -1, -1
	for i, col := range header {
		switch col {
		case "name":
			nameCol = i
		case "probability":
			probCol = i
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf(`universe csv must have a "name" column`)
	}

	var referents []*Referent
	var prior map[string]float64
	if probCol >= 0 {
		prior = make(map[string]float64, len(records)-1)
	}
	for rowNum, row := range records[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("universe csv row %d has %d cells, want %d", rowNum+2, len(row), len(header))
		}
		name := row[nameCol]
		props := make(map[string]any, len(header)-1)
		for i, cell := range row {
			if i == nameCol || i == probCol {
				continue
			}
			props[header[i]] = parseCell(cell)
		}
		referents = append(referents, NewReferent(name, props))
		if probCol >= 0 {
			mass, err := strconv.ParseFloat(row[probCol], 64)
			if err != nil {
				return nil, fmt.Errorf("universe csv row %d: bad probability %q: %w", rowNum+2, row[probCol], err)
			}
			prior[name] = mass
		}
	}
	return NewUniverse(referents, prior)
}

// UniverseFromCSVFile reads a universe from the named CSV file.
func UniverseFromCSVFile(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return UniverseFromCSV(f)
}

func parseCell(cell string) any {
	switch cell {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		return n
	}
	return cell
}
