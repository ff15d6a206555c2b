package numeric

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		def      float64
		expected float64
	}{
		{"float64", 123.45, 0, 123.45},
		{"int", 7, 0, 7},
		{"numeric string", "42.5", 0, 42.5},
		{"string with spaces", "  99.9 ", 0, 99.9},
		{"json number", json.Number("3.14"), 0, 3.14},
		{"malformed string", "12abc", 0, 0},
		{"empty string", "", 5, 5},
		{"nil", nil, 1.5, 1.5},
		{"bool", true, 2, 2},
		{"map", map[string]any{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.value, tt.def))
		})
	}
}

func TestFlexUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{"number", `{"v": 101.5}`, 101.5},
		{"quoted number", `{"v": "101.5"}`, 101.5},
		{"null", `{"v": null}`, 0},
		{"empty string", `{"v": ""}`, 0},
		{"garbage string", `{"v": "n/a"}`, 0},
		{"missing", `{}`, 0},
		{"integer", `{"v": 100}`, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				V Flex `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &doc))
			assert.Equal(t, tt.expected, doc.V.Float64())
		})
	}
}

func TestFlexNeverFailsDocument(t *testing.T) {
	// A malformed price must not abort decoding of the rest of the payload.
	var doc struct {
		Price Flex   `json:"price"`
		Name  string `json:"name"`
	}
	err := json.Unmarshal([]byte(`{"price": "not-a-number", "name": "trader"}`), &doc)
	require.NoError(t, err)
	assert.Equal(t, 0.0, doc.Price.Float64())
	assert.Equal(t, "trader", doc.Name)
}
