package writer

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/price-convert/pkg/dataset"
	"github.com/rxtech-lab/price-convert/pkg/errors"
)

const parquetTable = "prices"

// ParquetWriter stages rows in an in-memory DuckDB table and exports them as a Parquet file.
type ParquetWriter struct {
	db          *sql.DB
	tx          *sql.Tx
	columns     []dataset.Column
	identifiers []string
	builder     squirrel.StatementBuilderType
	outputPath  string
	tmpPath     string
}

// NewParquetWriter creates a new ParquetWriter.
func NewParquetWriter(outputPath string) DatasetWriter {
	return &ParquetWriter{
		outputPath: outputPath,
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Initialize opens the DuckDB connection, creates the staging table for
// columns and begins a transaction.
// Numeric columns are stored as DOUBLE and everything else as VARCHAR.
func (w *ParquetWriter) Initialize(columns []dataset.Column) (err error) {
	if len(columns) == 0 {
		return errors.New(errors.ErrCodeWriteFailed, "cannot write a dataset without columns")
	}

	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to open DuckDB connection", err)
	}

	identifiers := make([]string, len(columns))
	definitions := make([]string, len(columns))

	for i, c := range columns {
		identifiers[i] = quoteIdentifier(c.Name)

		sqlType := "VARCHAR"
		if c.Kind == dataset.KindNumber {
			sqlType = "DOUBLE"
		}

		definitions[i] = fmt.Sprintf("%s %s", identifiers[i], sqlType)
	}

	// squirrel has no CREATE TABLE builder
	_, err = w.db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", parquetTable, strings.Join(definitions, ", ")))
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}

	w.columns = columns
	w.identifiers = identifiers

	return nil
}

// Write inserts a single row within the transaction.
func (w *ParquetWriter) Write(row *dataset.Row) error {
	if w.tx == nil {
		return errors.New(errors.ErrCodeWriteFailed, "writer not initialized or transaction is nil")
	}

	values := make([]any, len(w.columns))

	for i, c := range w.columns {
		value := row.Get(c.Name).TakeOr(dataset.Null())

		switch value.Kind {
		case dataset.KindNull:
			values[i] = nil
		case dataset.KindNumber:
			d, err := value.Decimal()
			if err != nil {
				return errors.Wrapf(errors.ErrCodeWriteFailed, err, "invalid number in column %q", c.Name)
			}

			values[i] = d.InexactFloat64()
		default:
			values[i] = value.Text
		}
	}

	query, args, err := w.builder.
		Insert(parquetTable).
		Columns(w.identifiers...).
		Values(values...).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build insert statement", err)
	}

	if _, err := w.tx.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert row", err)
	}

	return nil
}

// Finalize commits the transaction, exports the table to a temporary Parquet
// file and renames it to the output path.
func (w *ParquetWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeWriteFailed, "writer not initialized or transaction is nil")
	}

	if err := w.tx.Commit(); err != nil {
		_ = w.tx.Rollback()
		w.tx = nil

		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil
	w.tmpPath = tempPath(w.outputPath)

	_, err = w.db.Exec(fmt.Sprintf("COPY %s TO %s (FORMAT PARQUET)", parquetTable, quoteLiteral(w.tmpPath)))
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to export Parquet file %s", w.outputPath)
	}

	tmpPath := w.tmpPath
	w.tmpPath = ""

	if err := commit(tmpPath, w.outputPath); err != nil {
		return "", err
	}

	return w.outputPath, nil
}

// Close rolls back an unfinished transaction, closes the database and removes
// any temporary output.
func (w *ParquetWriter) Close() error {
	var closeErrors []error

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to rollback transaction: %w", err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close db connection: %w", err))
		}

		w.db = nil
	}

	if err := discard(w.tmpPath); err != nil {
		closeErrors = append(closeErrors, err)
	}

	w.tmpPath = ""

	if len(closeErrors) > 0 {
		errMsg := "errors occurred during close:"
		for _, e := range closeErrors {
			errMsg += fmt.Sprintf("\n- %v", e)
		}

		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// GetOutputPath returns the configured output file path.
func (w *ParquetWriter) GetOutputPath() string {
	return w.outputPath
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
