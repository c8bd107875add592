package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "null", value: Null(), expected: `null`},
		{name: "date string", value: String("2020-01-02"), expected: `"2020-01-02"`},
		{name: "string with quotes", value: String(`say "hi"`), expected: `"say \"hi\""`},
		{name: "number kept verbatim", value: Number("100.0"), expected: `100.0`},
		{name: "integer", value: Number("1000000"), expected: `1000000`},
		{name: "negative", value: Number("-0.25"), expected: `-0.25`},
		{name: "exponent", value: Number("1.5e3"), expected: `1.5e3`},
		{name: "leading dot", value: Number(".5"), expected: `0.5`},
		{name: "leading zero", value: Number("007"), expected: `7`},
		{name: "number with surrounding spaces", value: Number(" 100.0 "), expected: `100.0`},
		{name: "number with tab and leading dot", value: Number("\t.5"), expected: `0.5`},
		{name: "markup kept", value: String("a<b&c>d"), expected: `"a<b&c>d"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.value.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestValueMarshalJSONInvalidNumber(t *testing.T) {
	_, err := json.Marshal(Number("abc"))
	assert.Error(t, err)
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber("104.0"))
	assert.True(t, IsNumber("-3"))
	assert.True(t, IsNumber("2e10"))
	assert.True(t, IsNumber(" 104.0 "))
	assert.False(t, IsNumber("   "))
	assert.False(t, IsNumber(""))
	assert.False(t, IsNumber("2020-01-02"))
	assert.False(t, IsNumber("abc"))
}

func TestValueDecimal(t *testing.T) {
	d, err := Number("105.5").Decimal()
	require.NoError(t, err)
	assert.Equal(t, "105.5", d.String())

	d, err = Number(" 105.5").Decimal()
	require.NoError(t, err)
	assert.Equal(t, "105.5", d.String())

	_, err = String("105.5").Decimal()
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
