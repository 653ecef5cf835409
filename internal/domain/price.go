package domain

import "strings"

// One row of the fuel price reference table.
type PriceEntry struct {
	Locality     string
	StopName     string
	PricePerUnit float64
}

// Lowercase, trim and collapse inner whitespace so table keys and
// provider strings compare consistently.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Read-only price reference, partitioned by normalized locality.
// Entries within a locality keep the order they were loaded in; a repeated
// (locality, name) key takes the last-seen price but keeps its first position.
// A PriceTable is safe for concurrent reads once built.
type PriceTable struct {
	byLocality map[string][]PriceEntry
	size       int
}

func NewPriceTable(entries []PriceEntry) *PriceTable {
	t := &PriceTable{byLocality: make(map[string][]PriceEntry)}
	index := make(map[string]map[string]int)

	for _, e := range entries {
		loc := Normalize(e.Locality)
		name := Normalize(e.StopName)
		if loc == "" || name == "" {
			continue
		}

		names, ok := index[loc]
		if !ok {
			names = make(map[string]int)
			index[loc] = names
		}

		entry := PriceEntry{Locality: loc, StopName: name, PricePerUnit: e.PricePerUnit}
		if i, ok := names[name]; ok {
			t.byLocality[loc][i] = entry
			continue
		}

		names[name] = len(t.byLocality[loc])
		t.byLocality[loc] = append(t.byLocality[loc], entry)
		t.size++
	}

	return t
}

// Entries for a locality in load order. The returned slice must not be modified.
func (t *PriceTable) Locality(locality string) []PriceEntry {
	if t == nil {
		return nil
	}
	return t.byLocality[Normalize(locality)]
}

// Number of distinct (locality, name) entries.
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

func (t *PriceTable) Localities() int {
	if t == nil {
		return 0
	}
	return len(t.byLocality)
}
