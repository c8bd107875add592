package dataset

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rxtech-lab/price-convert/pkg/errors"
)

const utf8BOM = "\ufeff"

// naValues are cell texts read as missing values.
var naValues = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"#N/A": {},
	"#NA":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
}

type readOptions struct {
	stringColumns map[string]struct{}
}

// ReadOption configures ReadCSV.
type ReadOption func(*readOptions)

// WithStringColumns keeps the named columns as strings regardless of their content.
func WithStringColumns(names ...string) ReadOption {
	return func(o *readOptions) {
		for _, name := range names {
			o.stringColumns[name] = struct{}{}
		}
	}
}

// IsNA reports whether a cell text is read as a missing value.
func IsNA(text string) bool {
	_, ok := naValues[text]

	return ok
}

// ReadCSV loads a comma separated file with a header row.
//
// Columns are typed as a whole: a column is numeric when each of its
// non-missing cells is a number, otherwise every cell is a string.
// Rows shorter than the header are padded with nulls. Rows longer than the
// header, a missing header and duplicate header names are parse errors.
func ReadCSV(r io.Reader, opts ...ReadOption) (*Dataset, error) {
	options := readOptions{stringColumns: make(map[string]struct{})}
	for _, opt := range opts {
		opt(&options)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.ErrCodeParseFailed, "missing header row")
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to read header row", err)
	}

	if err := checkUTF8(reader, header); err != nil {
		return nil, err
	}

	columns, err := headerColumns(header)
	if err != nil {
		return nil, err
	}

	var records [][]string

	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to read record", err)
		}

		if err := checkUTF8(reader, record); err != nil {
			return nil, err
		}

		if len(record) > len(columns) {
			line, _ := reader.FieldPos(0)

			return nil, errors.Newf(errors.ErrCodeParseFailed,
				"line %d: expected at most %d fields, got %d", line, len(columns), len(record))
		}

		records = append(records, record)
	}

	for i := range columns {
		if _, ok := options.stringColumns[columns[i].Name]; ok {
			columns[i].Kind = KindString

			continue
		}

		columns[i].Kind = inferKind(records, i)
	}

	rows := make([]*Row, len(records))
	for i, record := range records {
		row := NewRow()

		for j, column := range columns {
			if j >= len(record) || IsNA(record[j]) {
				row.Set(column.Name, Null())

				continue
			}

			if column.Kind == KindNumber {
				row.Set(column.Name, Number(record[j]))
			} else {
				row.Set(column.Name, String(record[j]))
			}
		}

		rows[i] = row
	}

	return &Dataset{
		Columns: columns,
		Rows:    rows,
	}, nil
}

// checkUTF8 rejects the record just read when one of its fields is not valid UTF-8.
func checkUTF8(reader *csv.Reader, record []string) error {
	for i, field := range record {
		if !utf8.ValidString(field) {
			line, column := reader.FieldPos(i)

			return errors.Newf(errors.ErrCodeParseFailed, "line %d, column %d: invalid UTF-8 in field %d", line, column, i+1)
		}
	}

	return nil
}

func headerColumns(header []string) ([]Column, error) {
	columns := make([]Column, len(header))
	seen := make(map[string]struct{}, len(header))

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}

		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		if _, dup := seen[name]; dup {
			return nil, errors.Newf(errors.ErrCodeDuplicateColumn, "duplicate column %q in header", name)
		}

		seen[name] = struct{}{}
		columns[i] = Column{Name: name, Kind: KindString}
	}

	return columns, nil
}

// inferKind types column i as a number when it has at least one numeric
// cell and no cell other than missing values is non-numeric.
func inferKind(records [][]string, i int) Kind {
	numeric := false

	for _, record := range records {
		if i >= len(record) || IsNA(record[i]) {
			continue
		}

		if !IsNumber(record[i]) {
			return KindString
		}

		numeric = true
	}

	if numeric {
		return KindNumber
	}

	return KindString
}
