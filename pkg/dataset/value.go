package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the JSON type a cell is encoded as.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single cell. Text always holds the cell as it appeared in the source.
type Value struct {
	Kind Kind
	Text string
}

// Null returns a missing value.
func Null() Value {
	return Value{Kind: KindNull}
}

// String returns a string value.
func String(text string) Value {
	return Value{Kind: KindString, Text: text}
}

// Number returns a numeric value. text must satisfy IsNumber.
func Number(text string) Value {
	return Value{Kind: KindNumber, Text: text}
}

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Decimal parses a numeric value. Surrounding whitespace is ignored.
func (v Value) Decimal() (decimal.Decimal, error) {
	if v.Kind != KindNumber {
		return decimal.Zero, fmt.Errorf("value %q is a %s, not a number", v.Text, v.Kind)
	}

	return decimal.NewFromString(strings.TrimSpace(v.Text))
}

// MarshalJSON encodes numbers with their trimmed source text whenever that
// text is already a JSON number, so 100.0 stays 100.0. Strings are written
// without HTML escaping.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return marshalString(v.Text)
	case KindNumber:
		text := strings.TrimSpace(v.Text)
		if isJSONNumber(text) {
			return []byte(text), nil
		}

		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", v.Text, err)
		}

		return []byte(d.String()), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", int(v.Kind))
	}
}

// IsNumber reports whether a cell reads as a decimal number, ignoring
// surrounding whitespace.
func IsNumber(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	_, err := decimal.NewFromString(text)

	return err == nil
}

// marshalString encodes s as a JSON string, leaving <, > and & as they are.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(s); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func isJSONNumber(text string) bool {
	if text == "" {
		return false
	}

	c := text[0]
	if c != '-' && (c < '0' || c > '9') {
		return false
	}

	// json.Valid also accepts surrounding whitespace
	last := text[len(text)-1]
	if last < '0' || last > '9' {
		return false
	}

	return json.Valid([]byte(text))
}
