package dataset

import (
	"bytes"
	"fmt"

	"github.com/moznion/go-optional"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Row is one record. Keys keep the column order of the source file.
type Row struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{
		fields: orderedmap.New[string, Value](),
	}
}

// Set adds or replaces a field. New keys are appended after existing ones.
func (r *Row) Set(key string, value Value) {
	r.fields.Set(key, value)
}

// Get returns the field stored under key.
func (r *Row) Get(key string) optional.Option[Value] {
	value, ok := r.fields.Get(key)
	if !ok {
		return optional.None[Value]()
	}

	return optional.Some(value)
}

// Keys returns the field names in order.
func (r *Row) Keys() []string {
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

// Values returns the field values in key order.
func (r *Row) Values() []Value {
	values := make([]Value, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}

	return values
}

// Len returns the number of fields.
func (r *Row) Len() int {
	return r.fields.Len()
}

// MarshalJSON encodes the row as a JSON object with keys in order. Keys and
// string values are not HTML escaped.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}

		key, err := marshalString(pair.Key)
		if err != nil {
			return nil, err
		}

		value, err := pair.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", pair.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// renamed returns a copy of the row with keys replaced through names.
// Keys absent from names are kept.
func (r *Row) renamed(names map[string]string) *Row {
	out := NewRow()
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		if target, ok := names[key]; ok {
			key = target
		}

		out.fields.Set(key, pair.Value)
	}

	return out
}
