// Package dataset holds an in-memory table of price history rows read from CSV.
package dataset

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/price-convert/pkg/errors"
)

// Column describes one column of a dataset.
type Column struct {
	Name string
	Kind Kind
}

// Dataset is an ordered sequence of rows sharing the same columns.
type Dataset struct {
	Columns []Column
	Rows    []*Row
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}

	return names
}

// Column returns the index of the named column.
func (d *Dataset) Column(name string) optional.Option[int] {
	for i, c := range d.Columns {
		if c.Name == name {
			return optional.Some(i)
		}
	}

	return optional.None[int]()
}

// Rename replaces the names of mapped columns with their targets, in place.
// Column positions and row order are unchanged. It returns the renames that
// were applied, in column order.
func (d *Dataset) Rename(m Mapping) ([]Rename, error) {
	names := make(map[string]string)
	// output name -> source column that produced it
	seen := make(map[string]string, len(d.Columns))
	columns := make([]Column, len(d.Columns))

	var applied []Rename

	for i, c := range d.Columns {
		name := c.Name
		if rename := m.Lookup(c.Name); rename.IsSome() {
			r := rename.Unwrap()
			name = r.Target
			names[c.Name] = r.Target
			applied = append(applied, r)
		}

		if prev, dup := seen[name]; dup {
			source, existing := c.Name, prev
			if c.Name == name {
				source, existing = prev, c.Name
			}

			return nil, errors.Newf(errors.ErrCodeDuplicateColumn,
				"renaming column %q to %q collides with existing column %q", source, name, existing)
		}

		seen[name] = c.Name
		columns[i] = Column{Name: name, Kind: c.Kind}
	}

	if len(names) == 0 {
		return nil, nil
	}

	for i, row := range d.Rows {
		d.Rows[i] = row.renamed(names)
	}

	d.Columns = columns

	return applied, nil
}
