// Package converter turns a CSV price history into a JSON array of renamed row objects.
package converter

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rxtech-lab/price-convert/internal/logger"
	"github.com/rxtech-lab/price-convert/pkg/dataset"
	"github.com/rxtech-lab/price-convert/pkg/dataset/writer"
	"github.com/rxtech-lab/price-convert/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Options configures a Converter. The zero value converts to compact JSON
// with the default column mapping.
type Options struct {
	// Format of the output. Empty picks the format from the output extension.
	Format writer.Format
	// Indent is the number of spaces used to indent JSON output.
	Indent int
	// Strict fails the conversion when a mapped source column is missing.
	Strict bool
	// Progress shows a progress bar while rows are written.
	Progress bool
	// ProgressOutput receives the progress bar. Defaults to stderr.
	ProgressOutput io.Writer
	// Mapping is the rename table. Defaults to dataset.DefaultMapping.
	Mapping dataset.Mapping
}

// WriterFactory creates the writer for an output file.
type WriterFactory func(format writer.Format, outputPath string, opts writer.Options) (writer.DatasetWriter, error)

// Result summarizes a completed conversion.
type Result struct {
	InputPath     string
	OutputPath    string
	Format        writer.Format
	Rows          int
	Columns       []string
	Renamed       []dataset.Rename
	PassedThrough []string
	Duration      time.Duration
}

// Converter reads a CSV file, renames its columns and writes the rows out.
type Converter struct {
	options   Options
	log       *logger.Logger
	newWriter WriterFactory
}

// NewConverter creates a Converter. A nil log discards log output.
func NewConverter(options Options, log *logger.Logger) *Converter {
	if options.Mapping == nil {
		options.Mapping = dataset.DefaultMapping
	}

	if options.ProgressOutput == nil {
		options.ProgressOutput = os.Stderr
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Converter{
		options:   options,
		log:       log,
		newWriter: writer.New,
	}
}

// WithWriterFactory replaces the function used to create output writers.
func (c *Converter) WithWriterFactory(factory WriterFactory) *Converter {
	c.newWriter = factory

	return c
}

// Convert converts the input file with default options.
func Convert(ctx context.Context, inputPath, outputPath string) error {
	_, err := NewConverter(Options{}, nil).Convert(ctx, inputPath, outputPath)

	return err
}

// Convert reads inputPath, renames the mapped columns and writes the rows to
// outputPath, replacing any existing file.
//
// The input is fully parsed before the output is touched: a missing or
// malformed input leaves outputPath as it was. The output appears at
// outputPath only once completely written.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	start := time.Now()

	format := c.options.Format
	if format == "" {
		format = writer.FormatFromPath(outputPath)
	}

	ds, err := c.load(inputPath)
	if err != nil {
		return nil, err
	}

	c.log.Debug("Loaded input",
		zap.String("input", inputPath),
		zap.Int("rows", ds.Len()),
		zap.Strings("columns", ds.ColumnNames()),
	)

	if c.options.Strict {
		if missing := c.options.Mapping.Missing(ds.Columns); len(missing) > 0 {
			return nil, errors.Newf(errors.ErrCodeMissingColumn,
				"input file %s is missing columns: %s", inputPath, strings.Join(missing, ", "))
		}
	}

	var passedThrough []string

	for _, column := range ds.Columns {
		if c.options.Mapping.Lookup(column.Name).IsNone() {
			passedThrough = append(passedThrough, column.Name)
		}
	}

	renamed, err := ds.Rename(c.options.Mapping)
	if err != nil {
		return nil, errors.Wrapf(errors.GetCode(err), err, "failed to rename columns of %s", inputPath)
	}

	writtenPath, err := c.write(ctx, ds, format, outputPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		InputPath:     inputPath,
		OutputPath:    writtenPath,
		Format:        format,
		Rows:          ds.Len(),
		Columns:       ds.ColumnNames(),
		Renamed:       renamed,
		PassedThrough: passedThrough,
		Duration:      time.Since(start),
	}

	c.log.Info("Conversion completed",
		zap.String("input", result.InputPath),
		zap.String("output", result.OutputPath),
		zap.String("format", string(result.Format)),
		zap.Int("rows", result.Rows),
		zap.Int("renamed", len(result.Renamed)),
		zap.Strings("passed_through", result.PassedThrough),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

func (c *Converter) load(inputPath string) (*dataset.Dataset, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(errors.ErrCodeFileNotFound, err, "input file %s not found", inputPath)
		}

		return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to open input file %s", inputPath)
	}
	defer file.Close()

	ds, err := dataset.ReadCSV(file, dataset.WithStringColumns(c.options.Mapping.StringColumns()...))
	if err != nil {
		return nil, errors.Wrapf(errors.GetCode(err), err, "failed to parse input file %s", inputPath)
	}

	return ds, nil
}

func (c *Converter) write(ctx context.Context, ds *dataset.Dataset, format writer.Format, outputPath string) (string, error) {
	w, err := c.newWriter(format, outputPath, writer.Options{Indent: c.options.Indent})
	if err != nil {
		return "", err
	}

	defer func() {
		if err := w.Close(); err != nil {
			c.log.Warn("Failed to close writer",
				zap.String("output", outputPath),
				zap.Error(err),
			)
		}
	}()

	if err := w.Initialize(ds.Columns); err != nil {
		return "", writeError(err, outputPath)
	}

	var bar *progressbar.ProgressBar
	if c.options.Progress {
		bar = progressbar.NewOptions(ds.Len(),
			progressbar.OptionSetWriter(c.options.ProgressOutput),
			progressbar.OptionSetDescription(fmt.Sprintf("Writing %s", outputPath)),
			progressbar.OptionShowCount(),
		)
	}

	for i, row := range ds.Rows {
		if err := ctx.Err(); err != nil {
			return "", errors.Wrapf(errors.ErrCodeCanceled, err, "conversion canceled after %d of %d rows", i, ds.Len())
		}

		if err := w.Write(row); err != nil {
			return "", writeError(err, outputPath)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	writtenPath, err := w.Finalize()
	if err != nil {
		return "", writeError(err, outputPath)
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return writtenPath, nil
}

// writeError gives errors that carry no code the WriteError kind.
func writeError(err error, outputPath string) error {
	if errors.GetCode(err) != errors.ErrCodeUnknown {
		return err
	}

	return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write output file %s", outputPath)
}
