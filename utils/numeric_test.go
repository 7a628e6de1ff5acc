package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCalories(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "plain float", input: 150.0, want: 150},
		{name: "int", input: 150, want: 150},
		{name: "range midpoint", input: "120-140", want: 130},
		{name: "range with spaces", input: "100 - 150", want: 125},
		{name: "decimal range", input: "10.5-11.5", want: 11},
		{name: "numeric string", input: "95.5", want: 95.5},
		{name: "padded numeric string", input: " 42 ", want: 42},
		{name: "non-numeric string", input: "abc", want: 0},
		{name: "empty string", input: "", want: 0},
		{name: "nil", input: nil, want: 0},
		{name: "bool", input: true, want: 0},
		{name: "negative range not matched", input: "-5-10", want: 0},
		{name: "json number", input: json.Number("70"), want: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeCalories(tt.input))
		})
	}
}

func TestNormalizeCaloriesIdempotent(t *testing.T) {
	for _, v := range []any{150.0, "120-140", "abc", "95.5", nil} {
		once := NormalizeCalories(v)
		require.Equal(t, once, NormalizeCalories(once))
	}
}
