package writer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/rxtech-lab/price-convert/pkg/dataset"
	"github.com/rxtech-lab/price-convert/pkg/errors"
)

// JSONWriter writes rows as a single JSON array of objects.
type JSONWriter struct {
	outputPath string
	indent     string
	tmpPath    string
	file       *os.File
	buf        *bufio.Writer
	encoded    *bytes.Buffer
	encoder    *json.Encoder
	rows       int
}

// NewJSONWriter creates a new JSONWriter. indent is the number of spaces per
// nesting level, zero for compact output.
func NewJSONWriter(outputPath string, indent int) DatasetWriter {
	encoded := new(bytes.Buffer)
	encoder := json.NewEncoder(encoded)
	encoder.SetEscapeHTML(false)

	return &JSONWriter{
		outputPath: outputPath,
		indent:     strings.Repeat(" ", max(indent, 0)),
		encoded:    encoded,
		encoder:    encoder,
	}
}

// Initialize creates the temporary file and opens the array.
func (w *JSONWriter) Initialize(_ []dataset.Column) error {
	if w.file != nil {
		return errors.New(errors.ErrCodeWriteFailed, "writer already initialized")
	}

	tmpPath := tempPath(w.outputPath)

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create output file %s", w.outputPath)
	}

	w.tmpPath = tmpPath
	w.file = file
	w.buf = bufio.NewWriter(file)
	w.rows = 0

	if _, err := w.buf.WriteString("["); err != nil {
		return w.writeError(err)
	}

	return nil
}

// Write appends one object to the array.
func (w *JSONWriter) Write(row *dataset.Row) error {
	if w.buf == nil {
		return errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	w.encoded.Reset()

	if err := w.encoder.Encode(row); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to encode row %d", w.rows+1)
	}

	data := bytes.TrimSuffix(w.encoded.Bytes(), []byte("\n"))

	if w.rows > 0 {
		if err := w.buf.WriteByte(','); err != nil {
			return w.writeError(err)
		}
	}

	if w.indent != "" {
		var indented bytes.Buffer
		if err := json.Indent(&indented, data, w.indent, w.indent); err != nil {
			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to indent row %d", w.rows+1)
		}

		data = append([]byte("\n"+w.indent), indented.Bytes()...)
	}

	if _, err := w.buf.Write(data); err != nil {
		return w.writeError(err)
	}

	w.rows++

	return nil
}

// Finalize closes the array, flushes the file to disk and renames it to the output path.
func (w *JSONWriter) Finalize() (outputPath string, err error) {
	if w.buf == nil {
		return "", errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	closing := "]"
	if w.indent != "" && w.rows > 0 {
		closing = "\n]"
	}

	if _, err := w.buf.WriteString(closing); err != nil {
		return "", w.writeError(err)
	}

	if err := w.buf.Flush(); err != nil {
		return "", w.writeError(err)
	}

	if err := w.file.Sync(); err != nil {
		return "", w.writeError(err)
	}

	file := w.file
	w.file = nil
	w.buf = nil

	if err := file.Close(); err != nil {
		return "", w.writeError(err)
	}

	tmpPath := w.tmpPath
	w.tmpPath = ""

	if err := commit(tmpPath, w.outputPath); err != nil {
		return "", err
	}

	return w.outputPath, nil
}

// Close releases the file and removes the temporary output if Finalize did not complete.
func (w *JSONWriter) Close() error {
	var closeErr error

	if w.file != nil {
		closeErr = w.file.Close()
		w.file = nil
		w.buf = nil
	}

	if err := discard(w.tmpPath); err != nil && closeErr == nil {
		closeErr = err
	}

	w.tmpPath = ""

	return closeErr
}

// GetOutputPath returns the configured output file path.
func (w *JSONWriter) GetOutputPath() string {
	return w.outputPath
}

func (w *JSONWriter) writeError(err error) error {
	return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write output file %s", w.outputPath)
}
