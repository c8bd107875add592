package dataset

import (
	"github.com/moznion/go-optional"
)

// Rename maps a source column to its target field name.
// A KindString rename keeps the column as strings even when every cell is numeric.
// Other kinds leave the column type to inference.
type Rename struct {
	Source string
	Target string
	Kind   Kind
}

// Mapping is an ordered rename table.
type Mapping []Rename

// DefaultMapping renames Yahoo Finance style price history columns.
var DefaultMapping = Mapping{
	{Source: "Date", Target: "date", Kind: KindString},
	{Source: "Open", Target: "open", Kind: KindNumber},
	{Source: "High", Target: "high", Kind: KindNumber},
	{Source: "Low", Target: "low", Kind: KindNumber},
	{Source: "Close", Target: "close", Kind: KindNumber},
	{Source: "Adj Close", Target: "adjClose", Kind: KindNumber},
	{Source: "Volume", Target: "volume", Kind: KindNumber},
}

// Lookup finds the rename for a source column.
func (m Mapping) Lookup(source string) optional.Option[Rename] {
	for _, r := range m {
		if r.Source == source {
			return optional.Some(r)
		}
	}

	return optional.None[Rename]()
}

// StringColumns returns the source columns that must stay strings.
func (m Mapping) StringColumns() []string {
	var columns []string
	for _, r := range m {
		if r.Kind == KindString {
			columns = append(columns, r.Source)
		}
	}

	return columns
}

// Missing returns the source columns of m that are not among columns, in mapping order.
func (m Mapping) Missing(columns []Column) []string {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c.Name] = struct{}{}
	}

	var missing []string
	for _, r := range m {
		if _, ok := present[r.Source]; !ok {
			missing = append(missing, r.Source)
		}
	}

	return missing
}
