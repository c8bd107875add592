// Package writer persists a dataset to an output file.
//
// Every writer produces its file under a temporary name in the destination
// directory and renames it over the output path only once all rows are
// written, so the output path holds either the previous file or the complete
// new one.
package writer

import (
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/price-convert/pkg/dataset"
	"github.com/rxtech-lab/price-convert/pkg/errors"
)

// DatasetWriter defines the interface for writing a dataset to a destination.
type DatasetWriter interface {
	// Initialize sets up the writer for the given columns, creating the temporary output.
	Initialize(columns []dataset.Column) error
	// Write persists a single row.
	Write(row *dataset.Row) error
	// Finalize completes the output and moves it into place.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer and discards unfinished output.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// Format is an output file format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatJSON, FormatParquet}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported output format %q", name)
}

// FormatFromPath picks the format matching the output file extension, JSON by default.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}

	return FormatJSON
}

// Options holds format specific settings.
type Options struct {
	// Indent is the number of spaces used to indent JSON output. Zero writes compact JSON.
	Indent int
}

// New creates the writer for format.
func New(format Format, outputPath string, opts Options) (DatasetWriter, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(outputPath, opts.Indent), nil
	case FormatParquet:
		return NewParquetWriter(outputPath), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported output format %q", format)
	}
}
